// Comando seed_admin crea el usuario administrador inicial o restablece su contraseña.
//
//	go run ./cmd/seed_admin -password 'secreto-largo'
//
// Con STORE_DRIVER=memory no hay nada que sembrar: la API crea el administrador al
// arrancar a partir de ADMIN_USERNAME/ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/festal/festal-backend/internal/application/auth"
	"github.com/festal/festal-backend/internal/infrastructure/postgres"
	"github.com/festal/festal-backend/pkg/config"
	"github.com/festal/festal-backend/pkg/logger"
	"github.com/festal/festal-backend/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	username := flag.String("username", cfg.Admin.Username, "nombre de usuario del administrador")
	email := flag.String("email", cfg.Admin.Email, "email del administrador")
	department := flag.String("department", cfg.Admin.Department, "departamento")
	plain := flag.String("password", cfg.Admin.Password, "contraseña (mínimo 8 caracteres)")
	flag.Parse()

	if len(*plain) < auth.MinAdminPasswordLength {
		fmt.Fprintln(os.Stderr, "-password es obligatorio y debe tener al menos 8 caracteres")
		os.Exit(2)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatal().Str("store", cfg.DB.Driver).Msg("seed_admin solo aplica a PostgreSQL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	created, err := auth.EnsureAdmin(ctx, postgres.NewTxRunner(pool), password.NewHasher(bcrypt.DefaultCost), auth.AdminSeed{
		Username:   *username,
		Email:      *email,
		Department: *department,
		Password:   *plain,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Str("username", *username).Bool("created", created).Msg("administrador listo")
}
