package ui

import (
	"fmt"
	"strings"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Favorite string
	HeartOff, HeartOn                              string
	CornerTL, CornerTR, CornerBL, CornerBR         string
	H, V                                           string
	SymMarker, SymBullet                           string
}

var current Theme

func init() { _ = SetTheme("classic") }

// SetTheme switches the palette. Names are classic, neon and mono.
func SetTheme(name string) error {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Favorite: "\033[91m",
			HeartOff: "♡", HeartOn: "♥",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymMarker: "◉", SymBullet: "•",
		}
	case "mono":
		current = Theme{
			HeartOff: "[ ]", HeartOn: "[*]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymMarker: "@", SymBullet: "-",
		}
	case "classic", "":
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Favorite: fgMagenta,
			HeartOff: "♡", HeartOn: "❤",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymMarker: "◉", SymBullet: "•",
		}
	default:
		return fmt.Errorf("unknown theme %q", name)
	}
	return nil
}

// Expose what renderers need
func Current() Theme { return current }
