// Package detector handles system detection of ROM files.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles system detection from file extensions.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system that the ROM file extension indicates.
// An empty system is returned for extensions that are not specific to a system.
func (d *Detector) Detect(filename string) arch.System {
	system := detectFromFile(filename)
	d.logger.Debug("Detected system from file extension",
		log.String("system", string(system)),
		log.String("file", filename))
	return system
}

// Mismatch returns whether the ROM file extension indicates a system other
// than CHIP-8.
func (d *Detector) Mismatch(filename string) bool {
	system := d.Detect(filename)
	return system != "" && system != arch.CHIP8System
}

func detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".ch8", ".c8":
		return arch.CHIP8System
	case ".nes":
		return arch.NES
	default:
		return ""
	}
}
