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

// inspectschema prints the tables the migrations create. Without flags it
// migrates an in-memory sqlite database; -env inspects the configured database.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/localnerve/jam-build-landing/internal/config"
	"github.com/localnerve/jam-build-landing/internal/database"
	"github.com/localnerve/jam-build-landing/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func main() {
	useEnv := flag.Bool("env", false, "inspect the database from the environment instead of :memory:")
	flag.Parse()

	cfg := &config.Config{DBType: "sqlite", DBDatabase: ":memory:", DBConnectionLimit: 1}
	if *useEnv {
		_ = godotenv.Load()
		var err error
		if cfg, err = config.Load(""); err != nil {
			log.Fatal(err)
		}
	}

	db, err := database.Connect(cfg, zap.NewNop(), logger.Silent)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	// Auto-migrate to see what GORM creates
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	for _, model := range []any{&models.Document{}, &models.DeliveryAttempt{}} {
		stmt := db.Model(model).Statement
		if err := stmt.Parse(model); err != nil {
			log.Fatal(err)
		}
		table := stmt.Schema.Table
		fmt.Printf("\n=== Table: %s ===\n", table)

		columns, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			log.Fatal(err)
		}
		for _, c := range columns {
			nullable, _ := c.Nullable()
			fmt.Printf("  %-20s %-16s nullable=%t\n", c.Name(), c.DatabaseTypeName(), nullable)
		}

		indexes, err := db.Migrator().GetIndexes(model)
		if err != nil {
			log.Fatal(err)
		}
		for _, idx := range indexes {
			unique, _ := idx.Unique()
			fmt.Printf("  index %s %v unique=%t\n", idx.Name(), idx.Columns(), unique)
		}
	}
}
