package types

// EnvFileSource is implemented by configuration structs that name their own
// dotenv files. The loader reads them after the YAML source is applied.
type EnvFileSource interface {
	// DotenvFiles returns the dotenv files to load, in order.
	DotenvFiles() []string
}
