package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/download"
	"github.com/nexuscore/vaultd/internal/gate"
)

// maxUploadBytes bounds multipart uploads. Binaries only live in memory
// for the session, so the cap is deliberately modest.
const maxUploadBytes = 64 << 20

// itemView is the public serialization of a catalog item. The stored
// password never leaves the process; clients only see the restricted flag.
type itemView struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	SizeLabel      string                  `json:"size"`
	Links          []catalog.PlatformLink  `json:"links"`
	Category       string                  `json:"category"`
	UpdatedAt      string                  `json:"updatedAt"`
	DownloadCount  int                     `json:"downloadCount"`
	UserSubmitted  bool                    `json:"isUserFile"`
	Source         catalog.Source          `json:"source"`
	SecurityReport *catalog.SecurityReport `json:"securityReport,omitempty"`
	Restricted     bool                    `json:"restricted"`
	HasBinary      bool                    `json:"hasBinary"`
}

func (s *Server) toView(item catalog.Item) itemView {
	_, hasBinary := s.registry.Get(item.ID)
	return itemView{
		ID:             item.ID,
		Name:           item.Name,
		Description:    item.Description,
		SizeLabel:      item.SizeLabel,
		Links:          item.Links,
		Category:       item.Category,
		UpdatedAt:      item.UpdatedAt,
		DownloadCount:  item.DownloadCount,
		UserSubmitted:  item.UserSubmitted,
		Source:         item.Source,
		SecurityReport: item.SecurityReport,
		Restricted:     item.Restricted(),
		HasBinary:      hasBinary,
	}
}

func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	category := q.Get("category")
	if category == "" {
		category = catalog.CategoryAll
	}
	tab := q.Get("tab")
	if tab == "" {
		tab = catalog.TabPublic
	}

	items := catalog.Filter(s.catalog.All(), search, category, tab)
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = s.toView(item)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := s.catalog.FindByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, s.toView(item))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Categories)
}

// describeRequest asks the oracle to draft an upload manifest.
type describeRequest struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "filename is required"})
		return
	}

	// Never an error: oracle failures degrade to the local fallback.
	d := s.oracle.DescribeUpload(r.Context(), req.Filename, req.SizeBytes)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading upload"})
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	description := r.FormValue("description")
	if description == "" {
		description = fmt.Sprintf("Recurso técnico indexado: %s", header.Filename)
	}
	category := r.FormValue("category")
	if category == "" {
		category = "Desenvolvimento"
	}
	password := r.FormValue("password")

	now := time.Now()
	item := catalog.Item{
		ID:             catalog.NewUploadID(now),
		Name:           name,
		Description:    description,
		SizeLabel:      catalog.SizeLabel(int64(len(data))),
		Links:          []catalog.PlatformLink{{Platform: catalog.PlatformWeb, URL: "#", Extension: catalog.ExtZIP}},
		Category:       category,
		UpdatedAt:      now.Format("02/01/2006"),
		RelevanceScore: 100,
		UserSubmitted:  true,
		Source:         catalog.SourceVault,
		SecurityReport: catalog.NewSafeReport(),
		AccessPassword: password,
	}

	binary := &catalog.Binary{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	if err := s.catalog.Add(r.Context(), item, binary); err != nil {
		if errors.Is(err, catalog.ErrDuplicateID) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		// In-memory state is authoritative for the session; a persistence
		// failure is reported but the item stays served.
		log.Printf("server: persisting upload %s: %v", item.ID, err)
	}

	if s.index != nil {
		if err := s.index.AddItem(r.Context(), item); err != nil {
			log.Printf("server: indexing upload %s: %v", item.ID, err)
		}
	}

	writeJSON(w, http.StatusCreated, s.toView(item))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := s.catalog.FindByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if item.Restricted() && !gate.Verify(item.AccessPassword, r.URL.Query().Get("key")) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid key"})
		return
	}

	d := download.Resolve(item, s.registry)
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(d.Data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
