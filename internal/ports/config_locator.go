package ports

// ConfigLocator finds the directory holding fitdemo.yaml starting from an arbitrary directory.
type ConfigLocator interface {
	FindRoot(startDir string) (string, error)
}

// ConfigInitializer writes a starter configuration into root.
type ConfigInitializer interface {
	Init(root string, force bool) error
}
