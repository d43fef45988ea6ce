package download

import (
	"testing"

	"github.com/nexuscore/vaultd/internal/catalog"
)

func TestResolveSessionBinary(t *testing.T) {
	registry := catalog.NewSessionRegistry()
	registry.Put("nexus-1", catalog.Binary{
		Filename:    "tool-v2.tar.gz",
		ContentType: "application/gzip",
		Data:        []byte("payload"),
	})

	item := catalog.Item{ID: "nexus-1", Name: "Tool"}
	d := Resolve(item, registry)

	if !d.FromSession {
		t.Fatal("FromSession = false, want true")
	}
	if d.Filename != "tool-v2.tar.gz" {
		t.Errorf("Filename = %q, want original upload name", d.Filename)
	}
	if d.ContentType != "application/gzip" {
		t.Errorf("ContentType = %q, want application/gzip", d.ContentType)
	}
	if string(d.Data) != "payload" {
		t.Errorf("Data = %q, want payload bytes", d.Data)
	}
}

func TestResolveMissingContentType(t *testing.T) {
	registry := catalog.NewSessionRegistry()
	registry.Put("nexus-1", catalog.Binary{Filename: "blob", Data: []byte("x")})

	d := Resolve(catalog.Item{ID: "nexus-1", Name: "Blob"}, registry)
	if d.ContentType != "application/octet-stream" {
		t.Errorf("ContentType = %q, want application/octet-stream", d.ContentType)
	}
}

func TestResolvePlaceholder(t *testing.T) {
	registry := catalog.NewSessionRegistry()

	item := catalog.Item{ID: "nexus-2", Name: "Kernel Patch"}
	d := Resolve(item, registry)

	if d.FromSession {
		t.Fatal("FromSession = true for an item without a session binary")
	}
	if d.Filename != "Kernel Patch.zip" {
		t.Errorf("Filename = %q, want display name plus .zip", d.Filename)
	}
	if string(d.Data) != "Nexus Data: Kernel Patch" {
		t.Errorf("Data = %q, want synthetic placeholder", d.Data)
	}
}
