package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('ADMIN', 'EMPLOYEE');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'vehicle_status') THEN
			CREATE TYPE vehicle_status AS ENUM ('ACTIVE', 'MAINTENANCE', 'OUT_OF_SERVICE');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'ownership_type') THEN
			CREATE TYPE ownership_type AS ENUM ('OWNED', 'RENTAL');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'maintenance_type') THEN
			CREATE TYPE maintenance_type AS ENUM ('TAGLIANDO', 'GOMME', 'MECCANICA', 'REVISIONE', 'ALTRO');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'tire_type') THEN
			CREATE TYPE tire_type AS ENUM ('ESTIVE', 'INVERNALI', 'QUATTRO_STAGIONI');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'document_type') THEN
			CREATE TYPE document_type AS ENUM ('LIBRETTO_CIRCOLAZIONE', 'ASSICURAZIONE', 'ALTRO');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL,
		name VARCHAR(100) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role user_role NOT NULL DEFAULT 'EMPLOYEE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		plate VARCHAR(32) NOT NULL,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(64) NOT NULL,
		status vehicle_status NOT NULL DEFAULT 'ACTIVE',
		ownership_type ownership_type NOT NULL DEFAULT 'OWNED',
		service_interval_km INTEGER NOT NULL DEFAULT 15000,
		registration_date DATE,
		current_anomaly TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_vehicles_plate ON vehicles (plate);`,
	`CREATE TABLE IF NOT EXISTS trip_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id),
		date DATE NOT NULL,
		initial_km INTEGER NOT NULL,
		final_km INTEGER,
		start_time VARCHAR(5) NOT NULL,
		end_time VARCHAR(5),
		route TEXT,
		notes TEXT,
		has_anomaly BOOLEAN NOT NULL DEFAULT FALSE,
		anomaly_description TEXT,
		is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trip_logs_vehicle_date ON trip_logs (vehicle_id, date DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_trip_logs_user ON trip_logs (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_trip_logs_unresolved ON trip_logs (vehicle_id) WHERE has_anomaly AND NOT is_resolved;`,
	`CREATE TABLE IF NOT EXISTS fueling_records (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id),
		date DATE NOT NULL,
		liters NUMERIC(10,2) NOT NULL,
		cost NUMERIC(10,2) NOT NULL,
		mileage INTEGER NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_fueling_vehicle_date ON fueling_records (vehicle_id, date DESC);`,
	`CREATE TABLE IF NOT EXISTS maintenance_records (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		type maintenance_type NOT NULL,
		cost NUMERIC(10,2),
		mileage INTEGER NOT NULL,
		notes TEXT,
		tire_type tire_type,
		tire_storage_location TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_vehicle_date ON maintenance_records (vehicle_id, date DESC);`,
	`CREATE TABLE IF NOT EXISTS maintenance_resolved_logs (
		maintenance_id UUID NOT NULL REFERENCES maintenance_records(id) ON DELETE CASCADE,
		trip_log_id UUID NOT NULL REFERENCES trip_logs(id) ON DELETE CASCADE,
		PRIMARY KEY (maintenance_id, trip_log_id)
	);`,
	`CREATE TABLE IF NOT EXISTS mileage_checks (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id),
		date DATE NOT NULL,
		km INTEGER NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_mileage_checks_vehicle_date ON mileage_checks (vehicle_id, date DESC);`,
	`CREATE TABLE IF NOT EXISTS vehicle_documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		document_type document_type NOT NULL DEFAULT 'ALTRO',
		title VARCHAR(255) NOT NULL,
		year INTEGER,
		file_url TEXT NOT NULL,
		file_type VARCHAR(64) NOT NULL,
		expiry_date DATE,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_vehicle ON vehicle_documents (vehicle_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
