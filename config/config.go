package config

import (
	"os"
	"sync"

	"github.com/Abdisalan-Osman/evently/internal/apperror"
	"github.com/Abdisalan-Osman/evently/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DatabaseURL   string
	WebhookSecret string
	JWTSecret     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}, nil
}

// Gateway owns the single shared database handle. Connect may be called from
// any number of request handlers; the first call opens and migrates the
// database and every later call, concurrent ones included, reuses the result.
type Gateway struct {
	dsn  string
	open func(dsn string) gorm.Dialector
	once sync.Once
	db   *gorm.DB
	err  error
}

func NewGateway(cfg *Config) *Gateway {
	return &Gateway{
		dsn: cfg.DatabaseURL,
		open: func(dsn string) gorm.Dialector {
			return postgres.Open(dsn)
		},
	}
}

// NewGatewayWithDialector builds a gateway over an explicit dialector, used
// by tests to run against in-memory sqlite.
func NewGatewayWithDialector(dialector gorm.Dialector) *Gateway {
	return &Gateway{
		dsn: dialector.Name(),
		open: func(string) gorm.Dialector {
			return dialector
		},
	}
}

func (g *Gateway) Connect() (*gorm.DB, error) {
	g.once.Do(func() {
		if g.dsn == "" {
			g.err = apperror.Configuration("DATABASE_URL is not set")
			return
		}

		db, err := gorm.Open(g.open(g.dsn), &gorm.Config{})
		if err != nil {
			g.err = apperror.Connection(err)
			return
		}

		if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Category{}, &models.Order{}); err != nil {
			g.err = apperror.Connection(err)
			return
		}

		g.db = db
	})
	return g.db, g.err
}
