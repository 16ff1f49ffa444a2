package config

// Empty is the configuration the root command line parser is bound to. The
// actual configuration is resolved by each subcommand.
type Empty struct{}

// HomeFlag is embedded by the subcommands that need to resolve the
// application home.
type HomeFlag struct {
	Home string `long:"home" description:"Path to the custom home for tezedge-snapshots"`
}
