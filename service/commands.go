package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"inkwell/app/config"
	"inkwell/app/logger"

	"github.com/spf13/cobra"
)

// Version of the inkwell binary.
var Version = "1.0.0"

var osExit = os.Exit

// HandleCommand runs the CLI with args and returns the exit code.
func HandleCommand(args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

// Execute runs the CLI with the process arguments and exits on failure.
func Execute() {
	if code := HandleCommand(os.Args[1:]); code != 0 {
		osExit(code)
	}
}

// NewRootCommand builds the inkwell command tree.
func NewRootCommand() *cobra.Command {
	e := &env{}
	var dataDir string

	root := &cobra.Command{
		Use:   "inkwell",
		Short: "inkwell blog API server",
		Long: `inkwell serves a blog API with posts, nested comments, categories and
token based accounts, backed by an embedded badger store.

Settings come from INKWELL_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			e.cfg, e.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				e.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "store directory (overrides INKWELL_DATA_DIR)")

	root.AddCommand(
		newServeCommand(e),
		newInitCommand(e),
		newCleanCommand(e),
		newBackupCommand(e),
		newRestoreCommand(e),
		newSeedCommand(e),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// The version needs no config or logger.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell version %s\n", Version)
		},
	}
}

func newInitCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.dataDir()
			if storeExists(path) {
				return fmt.Errorf("store already exists at %s, use 'clean' first to reinitialize", path)
			}
			store, err := e.openStore(path)
			if err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store initialized at %s\n", path)
			return nil
		},
	}
}

func newCleanCommand(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.dataDir()
			out := cmd.OutOrStdout()
			if !storeExists(path) {
				fmt.Fprintln(out, "Store is already clean (does not exist)")
				return nil
			}
			if !yes && !confirm(cmd, "Are you sure you want to clean the store? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to clean store: %w", err)
			}
			fmt.Fprintln(out, "Store cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newBackupCommand(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.dataDir()
			if !storeExists(path) {
				return fmt.Errorf("no store exists at %s", path)
			}

			target := out
			if target == "" {
				target = filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}

			store, err := e.openStore(path)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			if err := store.Backup(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Store backed up successfully to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "backup file (default data/backups/backup_<unix>.db)")
	return cmd
}

func newRestoreCommand(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the store from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return restore(cmd, e, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing store without asking")
	return cmd
}

func restore(cmd *cobra.Command, e *env, backupFile string, yes bool) (err error) {
	out := cmd.OutOrStdout()

	f, err := os.Open(backupFile)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	path := e.dataDir()
	if storeExists(path) {
		if !yes && !confirm(cmd, "Existing store found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove existing store: %w", err)
		}
	}

	store, err := e.openStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	// badger panics on some malformed backups.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to restore store: panic during load: %v", r)
		}
	}()
	if err := store.Load(f); err != nil {
		return fmt.Errorf("failed to restore store: %w", err)
	}

	fmt.Fprintln(out, "Store restored successfully")
	return nil
}
