// common.go
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

package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/leads"
)

// parseList extracts a list from query parameters, supporting both repeated
// keys and comma-separated values. Duplicates are dropped, first seen order is kept.
func parseList(c *fiber.Ctx, name string) []string {
	seen := make(map[string]struct{})
	var out []string

	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) != name {
			continue
		}
		for _, v := range strings.Split(string(value), ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}

// confirmed reads the confirm query flag guarding destructive routes
func confirmed(c *fiber.Ctx) bool {
	ok, err := strconv.ParseBool(c.Query("confirm"))
	return err == nil && ok
}

// leadFilter reads the status and search query parameters
func leadFilter(c *fiber.Ctx) leads.Filter {
	return leads.Filter{
		Status: documents.LeadStatus(strings.TrimSpace(c.Query("status"))),
		Search: c.Query("search"),
	}
}

// scalarValue turns a JSON scalar into the string form the collection admin takes.
// Strings are unquoted, numbers and booleans keep their literal text.
func scalarValue(raw json.RawMessage) (string, bool) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[', 'n':
		return "", false
	}
	return string(raw), json.Valid(raw)
}
