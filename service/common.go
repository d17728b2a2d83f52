package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"inkwell/app/config"
	"inkwell/app/logger"
	"inkwell/app/repositories"

	"github.com/spf13/cobra"
)

// backupDir is where backups go when --out is not given.
var backupDir = "data/backups"

// env is the state shared by every command, filled in before it runs.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func (e *env) dataDir() string {
	return e.cfg.DataDir
}

// storeExists reports whether a store directory is present at path.
func storeExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// openStore opens the on-disk store at path, creating the directory when
// needed.
func (e *env) openStore(path string) (*repositories.Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return repositories.NewStore(path, e.log.Badger())
}

// confirm asks a yes/no question on the command's input. Anything but y or
// yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
