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
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/jam-build-landing/internal/bus"
	"github.com/localnerve/jam-build-landing/internal/config"
	"github.com/localnerve/jam-build-landing/internal/database"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/logging"
	"github.com/localnerve/jam-build-landing/internal/services"
	"github.com/localnerve/jam-build-landing/internal/storage"
	"gorm.io/gorm/logger"
)

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	timeout := flag.Duration("timeout", 5*time.Second, "overall check timeout")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Only warnings and errors, stdout carries the result
	zl, err := logging.New("warn", cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	db, err := database.Connect(cfg, zl, logger.Silent)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// The webhook target is read the same way the lead pipeline reads it
	catalog := documents.NewCatalog(storage.NewStore(db, zl), bus.New(zl), zl)
	result := services.HealthCheck(ctx, cfg, db, catalog.Webhook.Get(ctx), zl)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if !result.Healthy() {
		os.Exit(1)
	}
	os.Exit(0)
}
