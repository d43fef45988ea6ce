package download

import (
	"fmt"

	"github.com/nexuscore/vaultd/internal/catalog"
)

// Delivery is the payload offered to the user when a transfer completes.
type Delivery struct {
	Filename    string
	ContentType string
	Data        []byte
	FromSession bool
}

// Resolve picks the payload for an item: the session binary uploaded this
// process lifetime under its original name, or a deterministic synthetic
// placeholder derived from the display name.
func Resolve(item catalog.Item, registry *catalog.SessionRegistry) Delivery {
	if b, ok := registry.Get(item.ID); ok {
		ct := b.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		return Delivery{
			Filename:    b.Filename,
			ContentType: ct,
			Data:        b.Data,
			FromSession: true,
		}
	}

	return Delivery{
		Filename:    item.Name + ".zip",
		ContentType: "application/octet-stream",
		Data:        []byte(fmt.Sprintf("Nexus Data: %s", item.Name)),
	}
}
