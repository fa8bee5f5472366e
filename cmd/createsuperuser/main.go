// Command createsuperuser creates an administrator, or promotes an existing
// account, identified by phone number.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/config"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/database"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/repositories"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
)

type options struct {
	Phone     string
	FirstName string
	LastName  string
	Author    bool
}

func main() {
	var opts options
	var dsn string
	pflag.StringVar(&opts.Phone, "phone", "", "phone number of the administrator, e.g. 989123456789")
	pflag.StringVar(&opts.FirstName, "first-name", "", "first name")
	pflag.StringVar(&opts.LastName, "last-name", "", "last name")
	pflag.BoolVar(&opts.Author, "author", true, "also allow the administrator to write blogs")
	pflag.StringVar(&dsn, "dsn", "", "database DSN; defaults to the service configuration")
	pflag.Parse()

	log := logging.New("info", "text")
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		dsn = cfg.DSN
	}

	db, err := database.Open(dsn, log)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	user, created, err := createSuperuser(context.Background(), repositories.NewUserRepository(db), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{"user_id": user.ID, "phone": user.Phone, "created": created}).Info("superuser ready")
}

// createSuperuser gets or creates the account for opts.Phone and grants it staff and admin rights
func createSuperuser(ctx context.Context, repo domain.UserRepository, opts options) (*domain.User, bool, error) {
	if err := domain.ValidatePhone(opts.Phone); err != nil {
		return nil, false, fmt.Errorf("--phone: %w", err)
	}

	user, created, err := repo.GetOrCreateByPhone(ctx, opts.Phone)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	if opts.FirstName != "" {
		user.FirstName = opts.FirstName
	}
	if opts.LastName != "" {
		user.LastName = opts.LastName
	}
	user.IsStaff = true
	user.IsAdmin = true
	user.Author = user.Author || opts.Author
	if err := repo.Update(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to save user: %w", err)
	}
	return user, created, nil
}
