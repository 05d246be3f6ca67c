package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mvp-joe/macrolens/internal/config"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/spf13/cobra"
)

var (
	crateDir string
	verbose  bool
)

// lookFlags holds the root command's selector and target flags.
type lookFlags struct {
	trait           string
	structure       string
	function        string
	binary          string
	path            string
	integrationTest string
	input           string
	watch           string
	noColor         bool
}

var look lookFlags

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "macrolens",
	Short: "Show the macro-expanded source of one Rust declaration",
	Long: `macrolens expands a Rust crate with the compiler and prints only the
declaration you ask for, formatted and highlighted.

Selectors:
  -s NAME          struct, enum or union definition
  -f NAME          function definition
  -t NAME          trait implementation block
  -t NAME -s TYPE  trait implementation block for TYPE

Examples:
  # Show the expanded definition of Point in the library target
  macrolens -s Point

  # Show what #[derive(Debug)] generated for Point
  macrolens -t Debug -s Point

  # Look into a binary target and keep the view updated while editing
  macrolens -b server -f main --watch

  # Refresh only when one file changes
  macrolens -s Point -w src/shapes.rs

  # Search output that was already expanded
  cargo expand | macrolens --input - -s Point
`,
	SilenceUsage: true,
	Args:         watchArgs,
	RunE:         runLook,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&crateDir, "dir", "", "crate directory (default is the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	flags := rootCmd.Flags()
	flags.StringVarP(&look.trait, "trait-impl", "t", "", "Trait whose implementation block to show")
	flags.StringVarP(&look.structure, "structure", "s", "", "Struct, enum or union to show (with -t: the implementing type)")
	flags.StringVarP(&look.function, "function", "f", "", "Function to show")
	flags.StringVarP(&look.binary, "binary", "b", "", "Expand the named binary target instead of the library")
	flags.StringVarP(&look.path, "path", "p", "", "Expand only this module path (uses cargo expand)")
	flags.StringVarP(&look.integrationTest, "integration-test", "i", "", "Expand the named integration test target")
	flags.StringVarP(&look.watch, "watch", "w", "", "Keep the view open and refresh it when PATH changes (default the crate directory)")
	flags.Lookup("watch").NoOptDefVal = watchDefault
	flags.StringVar(&look.input, "input", "", "Read already-expanded code from FILE ('-' for stdin) instead of running the compiler")
	flags.BoolVar(&look.noColor, "no-color", false, "Disable syntax highlighting")

	rootCmd.MarkFlagsMutuallyExclusive("binary", "integration-test")
}

func (f lookFlags) request() (locate.Request, error) {
	return locate.FromSelectors(f.trait, f.structure, f.function)
}

// resolveCrateDir returns the absolute crate directory.
func resolveCrateDir() (string, error) {
	dir := crateDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve crate directory: %w", err)
	}
	return abs, nil
}

func runLook(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		look.watch = args[0]
	}

	req, err := look.request()
	if err != nil {
		return err
	}

	rootDir, err := resolveCrateDir()
	if err != nil {
		return err
	}

	// Load configuration from .macrolens/config.yml
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, err := newService(cfg, rootDir, look, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer svc.Close()

	color := cfg.Display.Color && !look.noColor && os.Getenv("NO_COLOR") == ""

	if look.watch != "" {
		return runWatch(cmdContext(cmd), cfg, rootDir, svc, req, color)
	}

	// Ctrl+C kills the compiler instead of leaving it running
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runOnce(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), svc, req, color)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
