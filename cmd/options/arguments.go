package options

// Arguments represents raw command line arguments
type Arguments []string
