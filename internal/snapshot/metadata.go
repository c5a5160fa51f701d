package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/internal/system"
	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

// Metadata is the per-snapshot descriptor, stored as metadata.json inside
// each snapshot directory. It is always written, even when every element was
// opted out, so callers can distinguish "no backup requested" from "backup
// requested but everything excluded".
type Metadata struct {
	// BackupDate is the human-readable creation time.
	BackupDate string `json:"backup_date"`

	// BackupTimestamp is the snapshot id.
	BackupTimestamp string `json:"backup_timestamp"`

	OSName         string `json:"os_name"`
	OSID           string `json:"os_id"`
	OSVersion      string `json:"os_version"`
	OSVersionMajor int    `json:"os_version_major"`
	Hostname       string `json:"hostname"`
	Kernel         string `json:"kernel"`

	// PackageCount is the total installed-package count at capture time.
	PackageCount int `json:"package_count"`

	// ReleaseRPMCount is how many release package payloads were captured.
	ReleaseRPMCount int `json:"release_rpm_count"`

	// ScriptVersion is the engine version that created the snapshot.
	ScriptVersion string `json:"script_version"`

	// BackedUpElements is the set of element kinds actually captured.
	BackedUpElements []string `json:"backed_up_elements"`
}

// NewMetadata builds a descriptor for a fresh snapshot.
func NewMetadata(id string, ident *system.Identity, version string, captured []Kind) *Metadata {
	elements := make([]string, len(captured))
	for i, k := range captured {
		elements[i] = string(k)
	}

	return &Metadata{
		BackupDate:       time.Now().Format("2006-01-02 15:04:05"),
		BackupTimestamp:  id,
		OSName:           ident.Name,
		OSID:             ident.ID,
		OSVersion:        ident.Version,
		OSVersionMajor:   ident.VersionMajor,
		Hostname:         ident.Hostname,
		Kernel:           ident.Kernel,
		ScriptVersion:    version,
		BackedUpElements: elements,
	}
}

// Captured reports whether the descriptor records the kind as captured.
func (m *Metadata) Captured(k Kind) bool {
	return slices.Contains(m.BackedUpElements, string(k))
}

// WriteMetadata writes the descriptor into a snapshot directory atomically.
func WriteMetadata(dir string, m *Metadata) error {
	return fileutil.AtomicWriteJSON(filepath.Join(dir, metadataFile), m)
}

// ReadMetadata loads the descriptor of a snapshot directory.
func ReadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, errors.Wrap(err, "reading metadata")
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parsing metadata")
	}
	return &m, nil
}
