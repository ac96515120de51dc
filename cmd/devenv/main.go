// main.go
//
// Landing page content service with lead capture
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-landing.
// jam-build-landing is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-landing is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-landing.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/jam-build-landing/internal/devenv"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var opts devenv.Options
	flag.BoolVar(&opts.Authorizer, "authorizer", false, "also start the authorizer (AUTHZ_IMAGE)")
	flag.BoolVar(&opts.Service, "service", false, "also run the service image")
	flag.Parse()

	usage := `
Run the landing service dependencies in containers with the environment variables from the .env file.
The database and redis always start. The authorizer and the service itself are optional.

Usage:

devenv [-h] [-f ENV_FILE_PATH] [-authorizer] [-service]

ENV_FILE_PATH: path to the .env file

example
  devenv -f /path/to/something/.env -authorizer
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	env, err := devenv.Start(ctx, nil, opts)
	if err != nil {
		log.Fatalf("Failed to create containers: %v\n", err)
	}

	cfg, err := env.Config(ctx)
	if err != nil {
		env.Terminate()
		log.Fatalf("Failed to read container addresses: %v\n", err)
	}
	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nREDIS_URL=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.RedisURL)

	<-ctx.Done()
	log.Printf("\nReceived signal, terminating containers...\n")
	env.Terminate()
	os.Exit(0)
}
