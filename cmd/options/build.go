package options

// Build represents module mode build options
type Build struct {
	Selection
	CacheURL string `short:"C" long:"cache" description:"module cache location"`
}

// Init initialises build options
func (b *Build) Init() error {
	if err := b.Selection.Init(); err != nil {
		return err
	}
	if b.CacheURL != "" {
		b.CacheURL = ensureAbsPath(b.CacheURL)
	}
	return nil
}
