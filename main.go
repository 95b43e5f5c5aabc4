package main

import (
	"flag"

	"goTwitter/auth"
	"goTwitter/database"
	"goTwitter/http"
)

// main is the app's entry point.
func main() {
	// The "-prod" flag means we're running in production. In that case a
	// signing secret must be provided through the environment before the
	// application starts.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a SECRET_KEY is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the database services.
	services, err := database.NewServices(
		db.Gorm,
		database.WithUser(config.Pepper),
		database.WithTweet(),
		database.WithFollow(),
		database.WithLike(),
		database.WithFeed(),
	)
	must(err)

	// The token service signs and verifies identity tokens.
	tokens := auth.NewTokenService(config.SecretKey, config.JWTAlgorithm)

	// Set up a webserver and serve the app.
	server := http.NewServer(services, tokens)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
