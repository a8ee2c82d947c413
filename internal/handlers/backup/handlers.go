// Package backup serves health, backup/restore and storage security endpoints.
package backup

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	httputil "debtplan/internal/http"
	"debtplan/internal/services/storage"
	"debtplan/internal/version"
)

// maxRestoreBytes caps uploaded backup archives
const maxRestoreBytes = 10 << 20

var store *storage.Storage

// Initialize sets up the backup package with required dependencies
func Initialize(s *storage.Storage) {
	store = s
}

// RegisterRoutes registers health, backup and security routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/health", handleHealth)
	r.Get("/api/backup", handleBackup)
	r.Post("/api/restore", handleRestore)

	r.Get("/api/security", handleSecurityStatus)
	r.Post("/api/security/encrypt", handleEncrypt)
	r.Post("/api/security/decrypt", handleDecrypt)
	r.Post("/api/security/unlock", handleUnlock)
	r.Post("/api/security/lock", handleLock)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Locked  bool   `json:"locked"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, healthResponse{
		Status:  "ok",
		Version: version.Get().Version,
		Locked:  !store.IsUnlocked(),
	})
}

// dataFiles lists data files relative to the storage directory
func dataFiles() ([]string, error) {
	var names []string
	err := filepath.WalkDir(store.Dir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") || strings.HasSuffix(d.Name(), ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(store.Dir(), path)
		if err != nil {
			return err
		}
		names = append(names, rel)
		return nil
	})
	return names, err
}

func handleBackup(w http.ResponseWriter, r *http.Request) {
	if !store.IsUnlocked() {
		httputil.ErrorResponse(w, "storage is locked; unlock it first", http.StatusLocked)
		return
	}

	names, err := dataFiles()
	if err != nil {
		httputil.ErrorResponse(w, "Error reading data directory", http.StatusInternalServerError)
		return
	}

	// Build the archive in memory so a failure can still be reported as an error
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		// Backups are always decrypted for portability
		data, err := store.ReadFile(name)
		if err != nil {
			httputil.ErrorResponse(w, fmt.Sprintf("Error reading %s: %v", name, err), http.StatusInternalServerError)
			return
		}
		f, err := zw.Create(filepath.ToSlash(name))
		if err == nil {
			_, err = f.Write(data)
		}
		if err != nil {
			httputil.ErrorResponse(w, "Error creating backup", http.StatusInternalServerError)
			return
		}
	}
	if err := zw.Close(); err != nil {
		httputil.ErrorResponse(w, "Error creating backup", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("payoff_backup_%s.zip", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(buf.Bytes())
}

func handleRestore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRestoreBytes); err != nil {
		httputil.ErrorResponse(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.ErrorResponse(w, "Error reading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		httputil.ErrorResponse(w, "Only ZIP backup files are allowed", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		httputil.ErrorResponse(w, "Error reading file", http.StatusInternalServerError)
		return
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		httputil.ErrorResponse(w, "Invalid ZIP file", http.StatusBadRequest)
		return
	}

	restored := 0
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(zf.Name), ".json") {
			continue
		}

		// Only the base name is used so entries can't escape the data directory
		name := filepath.Base(zf.Name)

		rc, err := zf.Open()
		if err != nil {
			log.Printf("Error opening zip entry %s: %v", zf.Name, err)
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			log.Printf("Error reading zip entry %s: %v", zf.Name, err)
			continue
		}

		if err := store.WriteFile(name, data); err != nil {
			if errors.Is(err, storage.ErrLocked) {
				httputil.ErrorResponse(w, "storage is locked; unlock it first", http.StatusLocked)
				return
			}
			log.Printf("Error writing file %s: %v", name, err)
			continue
		}
		restored++
		log.Printf("Restored file: %s", name)
	}

	if restored == 0 {
		httputil.ErrorResponse(w, "No JSON files found in backup", http.StatusBadRequest)
		return
	}

	log.Printf("Restore complete: %d files restored", restored)
	httputil.OK(w, map[string]int{"restored": restored})
}

type securityStatus struct {
	Encrypted bool `json:"encrypted"`
	Unlocked  bool `json:"unlocked"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

func currentStatus() securityStatus {
	return securityStatus{Encrypted: store.IsEncrypted(), Unlocked: store.IsUnlocked()}
}

func handleSecurityStatus(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, currentStatus())
}

func handleEncrypt(w http.ResponseWriter, r *http.Request) {
	withPassword(w, r, store.EnableEncryption, "Encryption enabled")
}

func handleDecrypt(w http.ResponseWriter, r *http.Request) {
	withPassword(w, r, store.DisableEncryption, "Encryption disabled")
}

func handleUnlock(w http.ResponseWriter, r *http.Request) {
	withPassword(w, r, store.Unlock, "Storage unlocked")
}

func handleLock(w http.ResponseWriter, r *http.Request) {
	store.Lock()
	log.Println("Storage locked")
	httputil.OK(w, currentStatus())
}

// withPassword decodes a password request and runs op with it
func withPassword(w http.ResponseWriter, r *http.Request, op func(string) error, logMsg string) {
	var req passwordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := op(req.Password); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, storage.ErrWrongPassword) {
			status = http.StatusUnauthorized
		}
		httputil.ErrorResponse(w, err.Error(), status)
		return
	}

	log.Println(logMsg)
	httputil.OK(w, currentStatus())
}
