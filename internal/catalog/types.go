package catalog

import (
	"fmt"
	"time"
)

// Platform identifies the OS a download link targets.
type Platform string

const (
	PlatformWindows Platform = "Windows"
	PlatformMacOS   Platform = "macOS"
	PlatformAndroid Platform = "Android"
	PlatformLinux   Platform = "Linux"
	PlatformIOS     Platform = "iOS"
	PlatformWeb     Platform = "Web"
)

// FileExtension is the artifact type of a download link.
type FileExtension string

const (
	ExtZIP     FileExtension = "ZIP"
	ExtAPK     FileExtension = "APK"
	ExtPDF     FileExtension = "PDF"
	ExtEXE     FileExtension = "EXE"
	ExtIMG     FileExtension = "IMG"
	ExtTXT     FileExtension = "TXT"
	ExtDMG     FileExtension = "DMG"
	ExtFlatpak FileExtension = "FLATPAK"
	ExtDEB     FileExtension = "DEB"
)

// Source identifies where an item's payload nominally lives.
type Source string

const (
	SourceVault  Source = "INTERNO"
	SourceRemote Source = "OFICIAL"
	SourceNexus  Source = "NEXUS-NETWORK"
)

// SecurityStatus is the verdict of an item's (placeholder) security scan.
type SecurityStatus string

const (
	StatusScanning SecurityStatus = "SCANNING"
	StatusSafe     SecurityStatus = "SAFE"
	StatusWarning  SecurityStatus = "WARNING"
	StatusDanger   SecurityStatus = "DANGER"
)

// SecurityReport is static placeholder data attached to uploads. There is
// no real scanner behind it.
type SecurityReport struct {
	Status  SecurityStatus `json:"status"`
	Score   int            `json:"score"`
	Threats []string       `json:"threats"`
	Summary string         `json:"summary"`
}

// NewSafeReport returns the fixed report stamped onto user uploads.
func NewSafeReport() *SecurityReport {
	return &SecurityReport{
		Status:  StatusSafe,
		Score:   100,
		Threats: []string{},
		Summary: "Integridade auditada por Nexus Core AI.",
	}
}

// PlatformLink is one (platform, url, extension) download target.
type PlatformLink struct {
	Platform  Platform      `json:"platform"`
	URL       string        `json:"url"`
	Extension FileExtension `json:"extension"`
}

// Item is a catalog entry. The JSON layout matches the persisted blob;
// AccessPassword is stored but must never be serialized onto the public
// API (see server.itemView).
type Item struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	SizeLabel      string          `json:"size"`
	Links          []PlatformLink  `json:"links"`
	Category       string          `json:"category"`
	UpdatedAt      string          `json:"updatedAt"`
	DownloadCount  int             `json:"downloadCount"`
	RelevanceScore int             `json:"relevanceScore"`
	UserSubmitted  bool            `json:"isUserFile,omitempty"`
	Source         Source          `json:"source"`
	SecurityReport *SecurityReport `json:"securityReport,omitempty"`
	AccessPassword string          `json:"password,omitempty"`
}

// Restricted reports whether the item is password-gated.
func (i Item) Restricted() bool { return i.AccessPassword != "" }

// Categories is the fixed category set. The first entry is the sentinel
// that disables category filtering.
var Categories = []string{
	CategoryAll,
	"Multimídia",
	"Utilitários",
	"Desenvolvimento",
	"Documentos",
	"Nexus (Externo)",
}

// CategoryAll disables category narrowing when selected.
const CategoryAll = "Todos"

// NewUploadID returns the identifier for a fresh upload at the given time.
func NewUploadID(t time.Time) string {
	return fmt.Sprintf("nexus-%d", t.UnixMilli())
}

// SizeLabel renders a byte count the way the upload form displays it.
// The label is precomputed once and never re-derived.
func SizeLabel(bytes int64) string {
	if bytes > 1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}
