package storage

import "strings"

// migrations is an ordered list of SQL migration groups. Each entry runs in a
// single transaction; the version number is the 1-based index. {{pk}} expands
// to the driver's auto-increment primary key column type.
var migrations = [][]string{
	// Migration 1: run log, MLS registry, canonical properties, cities, staging.
	{
		`CREATE TABLE mls (
			id {{pk}},
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			rets_url TEXT NOT NULL DEFAULT '',
			business_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE properties (
			id {{pk}},
			mls_id INTEGER NOT NULL,
			mls_property_id VARCHAR(50) NOT NULL,
			address_line_1 TEXT NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL,
			state VARCHAR(2) NOT NULL,
			zip_code VARCHAR(10) NOT NULL DEFAULT '',
			price NUMERIC(16,2) NOT NULL DEFAULT 0,
			status INTEGER NOT NULL DEFAULT 1,
			days_on_market INTEGER NOT NULL DEFAULT 0,
			photo_count INTEGER NOT NULL DEFAULT 0,
			bedrooms_total NUMERIC(5,2) NOT NULL DEFAULT 0,
			bathrooms_total NUMERIC(5,2) NOT NULL DEFAULT 0,
			bedrooms_full NUMERIC(5,2) NOT NULL DEFAULT 0,
			bedrooms_half NUMERIC(5,2) NOT NULL DEFAULT 0,
			bathrooms_full NUMERIC(5,2) NOT NULL DEFAULT 0,
			bathrooms_half NUMERIC(5,2) NOT NULL DEFAULT 0,
			rooms_total NUMERIC(5,2) NOT NULL DEFAULT 0,
			size INTEGER NOT NULL DEFAULT 0,
			year_built INTEGER NOT NULL DEFAULT 0,
			house_style TEXT NOT NULL DEFAULT '',
			property_type TEXT NOT NULL DEFAULT '',
			property_description TEXT NOT NULL DEFAULT '',
			water_source TEXT NOT NULL DEFAULT '',
			sewer TEXT NOT NULL DEFAULT '',
			family_room_level TEXT NOT NULL DEFAULT '',
			bedroom_dimensions_all TEXT NOT NULL DEFAULT '',
			living_room_dimensions TEXT NOT NULL DEFAULT '',
			living_room_flooring TEXT NOT NULL DEFAULT '',
			living_room_level TEXT NOT NULL DEFAULT '',
			attic_info TEXT NOT NULL DEFAULT '',
			basement_info TEXT NOT NULL DEFAULT '',
			heating_info TEXT NOT NULL DEFAULT '',
			cooling_info TEXT NOT NULL DEFAULT '',
			garage_info TEXT NOT NULL DEFAULT '',
			fireplace_info TEXT NOT NULL DEFAULT '',
			exterior_features TEXT NOT NULL DEFAULT '',
			roof_info TEXT NOT NULL DEFAULT '',
			foundation_info TEXT NOT NULL DEFAULT '',
			lot_dimensions TEXT NOT NULL DEFAULT '',
			lot_description TEXT NOT NULL DEFAULT '',
			school_elementary TEXT NOT NULL DEFAULT '',
			school_middle TEXT NOT NULL DEFAULT '',
			school_high TEXT NOT NULL DEFAULT '',
			seo_url TEXT NOT NULL DEFAULT '',
			agent_name TEXT NOT NULL DEFAULT '',
			agent_phone TEXT,
			agent_phone_2 TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (mls_id, mls_property_id)
		)`,
		`CREATE INDEX idx_properties_city_state ON properties(city, state)`,
		`CREATE INDEX idx_properties_zip ON properties(zip_code)`,
		`CREATE INDEX idx_properties_dom ON properties(days_on_market)`,
		`CREATE INDEX idx_properties_seo_url ON properties(seo_url)`,

		`CREATE TABLE cities (
			id {{pk}},
			name VARCHAR(100) NOT NULL,
			state VARCHAR(2) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			property_count_current INTEGER NOT NULL DEFAULT 0,
			UNIQUE (name, state)
		)`,

		`CREATE TABLE data_cycles (
			id {{pk}},
			run_key TEXT NOT NULL,
			step1_status INTEGER NOT NULL DEFAULT 0,
			step2_status INTEGER NOT NULL DEFAULT 0,
			step3_status INTEGER NOT NULL DEFAULT 0,
			step4_status INTEGER NOT NULL DEFAULT 0,
			step5_status INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP
		)`,

		`CREATE TABLE data_cycle_steps (
			id {{pk}},
			data_cycle_id INTEGER NOT NULL REFERENCES data_cycles(id),
			step_id INTEGER NOT NULL,
			status INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX idx_cycle_steps_cycle ON data_cycle_steps(data_cycle_id)`,

		// The staging table is normally loaded by the feed importer; create it
		// only when absent.
		`CREATE TABLE IF NOT EXISTS property_import (
			mls_id TEXT, mls_number TEXT, street_number TEXT, direction TEXT, street_name TEXT,
			city TEXT, state TEXT, zip_code TEXT, list_price TEXT, bedrooms TEXT, ttl_baths TEXT,
			bedrooms_full TEXT, bedrooms_half TEXT, full_baths TEXT, partial_baths TEXT,
			days_on_market TEXT, photo_count TEXT, total_sf_apx TEXT, style TEXT, public_remarks TEXT,
			rooms TEXT, year_built TEXT, water TEXT, sewer TEXT, property_type TEXT,
			family_rm_level TEXT, bedroom1_dim TEXT, bedroom2_dim TEXT, bedroom3_dim TEXT,
			bedroom4_dim TEXT, living_rm_dim TEXT, living_rm_flooring TEXT, living_rm_level TEXT,
			attic TEXT, basement TEXT, heat TEXT, cooling TEXT, garage TEXT, fireplace TEXT,
			exterior_features TEXT, roof TEXT, foundation TEXT, lot_size_apx TEXT,
			lot_description TEXT, elementary_school TEXT, middle_school TEXT, high_school TEXT,
			la_first_name TEXT, la_last_name TEXT, la_phone1 TEXT, la_phone2 TEXT
		)`,
	},
}

func migrationsFor(driver string) [][]string {
	pk := "BIGSERIAL PRIMARY KEY"
	if driver == DriverSQLite {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	out := make([][]string, len(migrations))
	for i, stmts := range migrations {
		out[i] = make([]string, len(stmts))
		for j, stmt := range stmts {
			out[i][j] = strings.ReplaceAll(stmt, "{{pk}}", pk)
		}
	}
	return out
}
