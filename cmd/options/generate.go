package options

// Generate represents unit mode source generation options
type Generate struct {
	Selection
	Dest        string `short:"o" long:"dest" description:"destination folder" default:"proxies"`
	Package     string `short:"g" long:"pkg" description:"generated package name"`
	PackagePath string `short:"i" long:"import" description:"generated package import path"`
}

// Init initialises generate options
func (g *Generate) Init() error {
	if err := g.Selection.Init(); err != nil {
		return err
	}
	if g.Dest == "" {
		g.Dest = "proxies"
	}
	expandRelativeIfNeeded(&g.Dest, g.Project)
	return nil
}
