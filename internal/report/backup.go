package report

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/nudriin/antrian-rest-api/internal/config"
	"github.com/nudriin/antrian-rest-api/internal/dates"
)

const backupRetentionDays = 30

// Backup shells out to pg_dump nightly, gzips the dump, and prunes archives
// older than the retention window.
type Backup struct {
	cfg   config.Config
	dates *dates.Service
	log   zerolog.Logger
}

func NewBackup(cfg config.Config, d *dates.Service, log zerolog.Logger) *Backup {
	return &Backup{cfg: cfg, dates: d, log: log}
}

func (b *Backup) Run(ctx context.Context) error {
	if err := os.MkdirAll(b.cfg.BackupDir, 0o755); err != nil {
		return err
	}

	raw := filepath.Join(b.cfg.BackupDir, "backup-"+b.dates.Today()+".sql")
	cmd := exec.CommandContext(ctx, "pg_dump",
		"--host", b.cfg.DBHost,
		"--port", b.cfg.DBPort,
		"--username", b.cfg.DBUser,
		"--dbname", b.cfg.DBName,
		"--file", raw,
		"--no-owner",
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+b.cfg.DBPass)
	if out, err := cmd.CombinedOutput(); err != nil {
		b.log.Error().Err(err).Str("output", string(out)).Msg("pg_dump failed")
		return err
	}

	if err := gzipFile(raw, raw+".gz"); err != nil {
		return err
	}
	if err := os.Remove(raw); err != nil {
		return err
	}
	b.log.Info().Str("file", raw+".gz").Msg("database backup written")

	b.pruneOld()
	return nil
}

// Restore loads an archive back into the database. Not routed over HTTP;
// operators call it from a maintenance binary or a REPL.
func (b *Backup) Restore(ctx context.Context, archive string) error {
	file := archive
	if strings.HasSuffix(archive, ".gz") {
		file = strings.TrimSuffix(archive, ".gz")
		if err := gunzipFile(archive, file); err != nil {
			return err
		}
		defer os.Remove(file)
	}

	cmd := exec.CommandContext(ctx, "psql",
		"--host", b.cfg.DBHost,
		"--port", b.cfg.DBPort,
		"--username", b.cfg.DBUser,
		"--dbname", b.cfg.DBName,
		"--file", file,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+b.cfg.DBPass)
	if out, err := cmd.CombinedOutput(); err != nil {
		b.log.Error().Err(err).Str("output", string(out)).Msg("restore failed")
		return err
	}
	b.log.Info().Str("file", archive).Msg("database restored")
	return nil
}

func (b *Backup) pruneOld() {
	entries, err := os.ReadDir(b.cfg.BackupDir)
	if err != nil {
		b.log.Error().Err(err).Msg("backup prune: read dir failed")
		return
	}
	cutoff := b.dates.Now().AddDate(0, 0, -backupRetentionDays)
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(b.cfg.BackupDir, e.Name())
			if err := os.Remove(path); err != nil {
				b.log.Error().Err(err).Str("file", path).Msg("backup prune: remove failed")
				continue
			}
			b.log.Info().Str("file", path).Msg("old backup removed")
		}
	}
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func gunzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer zr.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, zr)
	return err
}
