package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"inkwell/app/auth"
	"inkwell/app/models"
	"inkwell/app/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the fixture read by the seed command.
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
	Users      []SeedUser     `yaml:"users"`
}

type SeedCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SeedUser is an account to provision. Role defaults to user; admin is the
// only way to create administrators.
type SeedUser struct {
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

// seedPrincipal is the identity category creation runs as.
var seedPrincipal = models.Principal{ID: "seed", Role: models.RoleAdmin}

func newSeedCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create the categories and users listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeedFile(args[0])
			if err != nil {
				return err
			}

			store, err := e.openStore(e.dataDir())
			if err != nil {
				return err
			}
			defer store.Close()

			svc := newServices(store, nil, auth.NewTokens(e.cfg.JWTSecret, e.cfg.TokenTTL), e.log)
			return applySeed(cmd, seed, svc.Categories, svc.Auth)
		},
	}
}

func readSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, u := range seed.Users {
		if u.Role == "" {
			seed.Users[i].Role = models.RoleUser
		} else if !u.Role.Valid() {
			return nil, fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
		}
	}
	return &seed, nil
}

// applySeed creates everything in seed. Entries that already exist are
// skipped so the command can be rerun.
func applySeed(cmd *cobra.Command, seed *SeedFile, categories *services.CategoryService, accounts *services.AuthService) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	for _, c := range seed.Categories {
		_, err := categories.Create(ctx, seedPrincipal, services.CategoryInput{Name: c.Name, Description: c.Description})
		switch {
		case errors.Is(err, services.ErrConflict):
			fmt.Fprintf(out, "category %q exists, skipped\n", c.Name)
		case err != nil:
			return fmt.Errorf("category %q: %w", c.Name, err)
		default:
			fmt.Fprintf(out, "category %q created\n", c.Name)
		}
	}

	for _, u := range seed.Users {
		input := services.RegisterInput{Name: u.Name, Email: u.Email, Password: u.Password}
		_, err := accounts.Provision(ctx, input, u.Role)
		switch {
		case errors.Is(err, services.ErrConflict):
			fmt.Fprintf(out, "user %s exists, skipped\n", u.Email)
		case err != nil:
			return fmt.Errorf("user %s: %w", u.Email, err)
		default:
			fmt.Fprintf(out, "user %s created (%s)\n", u.Email, u.Role)
		}
	}
	return nil
}
