package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_members (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (project_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		created_by TEXT,
		status TEXT NOT NULL,
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		duration_seconds INTEGER,
		total_files INTEGER NOT NULL DEFAULT 0,
		files_processed INTEGER NOT NULL DEFAULT 0,
		scan_config JSONB NOT NULL DEFAULT '{}',
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scans_project_created ON scans (project_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS scan_files (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		file_path VARCHAR(1000) NOT NULL,
		language VARCHAR(50),
		lines_of_code INTEGER,
		vulnerability_count INTEGER NOT NULL DEFAULT 0,
		processed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_files_scan ON scan_files (scan_id)`,
	`CREATE TABLE IF NOT EXISTS vulnerabilities (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		type VARCHAR(100) NOT NULL,
		severity TEXT NOT NULL,
		file_path VARCHAR(1000) NOT NULL,
		line_number INTEGER NOT NULL,
		column_number INTEGER,
		code_snippet TEXT,
		message TEXT NOT NULL,
		cwe_id VARCHAR(20),
		owasp_category VARCHAR(100),
		status TEXT NOT NULL,
		remediation_notes TEXT,
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vulnerabilities_scan_created ON vulnerabilities (scan_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS event_jobs (
		id BIGSERIAL PRIMARY KEY,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL,
		state TEXT NOT NULL DEFAULT 'waiting',
		available_at BIGINT NOT NULL,
		locked_until BIGINT NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_event_jobs_claim ON event_jobs (kind, state, id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_members (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (project_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		created_by TEXT,
		status TEXT NOT NULL,
		started_at TIMESTAMP,
		completed_at TIMESTAMP,
		duration_seconds INTEGER,
		total_files INTEGER NOT NULL DEFAULT 0,
		files_processed INTEGER NOT NULL DEFAULT 0,
		scan_config TEXT NOT NULL DEFAULT '{}',
		error_message TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scans_project_created ON scans (project_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS scan_files (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		file_path TEXT NOT NULL,
		language TEXT,
		lines_of_code INTEGER,
		vulnerability_count INTEGER NOT NULL DEFAULT 0,
		processed_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_files_scan ON scan_files (scan_id)`,
	`CREATE TABLE IF NOT EXISTS vulnerabilities (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		severity TEXT NOT NULL,
		file_path TEXT NOT NULL,
		line_number INTEGER NOT NULL,
		column_number INTEGER,
		code_snippet TEXT,
		message TEXT NOT NULL,
		cwe_id TEXT,
		owasp_category TEXT,
		status TEXT NOT NULL,
		remediation_notes TEXT,
		resolved_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vulnerabilities_scan_created ON vulnerabilities (scan_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS event_jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL,
		state TEXT NOT NULL DEFAULT 'waiting',
		available_at INTEGER NOT NULL,
		locked_until INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_event_jobs_claim ON event_jobs (kind, state, id)`,
}
