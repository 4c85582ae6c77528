// Package ui is the debug panel: folders of slider bindings onto a
// properties.Bag, drawn as a styled text block.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/properties"
)

const sliderWidth = 20

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD75F"))
	folderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87AFFF"))
	rowStyle      = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = rowStyle.Foreground(lipgloss.Color("#5FFF87"))
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type Panel struct {
	Title    string
	folders  []*Folder
	selected int
}

type Folder struct {
	Title    string
	Expanded bool
	bindings []*Binding
}

func NewPanel(title string) *Panel {
	return &Panel{Title: title}
}

func (p *Panel) AddFolder(title string) *Folder {
	f := &Folder{Title: title, Expanded: true}
	p.folders = append(p.folders, f)
	return f
}

func (p *Panel) Folders() []*Folder {
	return p.folders
}

func (f *Folder) Bindings() []*Binding {
	return f.bindings
}

// AddBinding binds key of bag to a new slider in the folder.
func (f *Folder) AddBinding(bag *properties.Bag, key string, params BindingParams) (*Binding, error) {
	if _, ok := bag.Get(key); !ok {
		return nil, fmt.Errorf("cannot bind '%s': %w", key, properties.ErrUnknownProperty)
	}
	if params.Max < params.Min {
		return nil, fmt.Errorf("cannot bind '%s': max %.2f below min %.2f", key, params.Max, params.Min)
	}
	if params.Label == "" {
		params.Label = key
	}
	b := &Binding{key: key, bag: bag, params: params}
	f.bindings = append(f.bindings, b)
	return b, nil
}

// Bindings returns every binding of every folder in display order.
func (p *Panel) Bindings() []*Binding {
	var out []*Binding
	for _, f := range p.folders {
		out = append(out, f.bindings...)
	}
	return out
}

// Selected returns the binding driven by the keyboard, nil on an empty panel.
func (p *Panel) Selected() *Binding {
	all := p.Bindings()
	if len(all) == 0 {
		return nil
	}
	return all[p.selected%len(all)]
}

func (p *Panel) SelectNext() {
	if n := len(p.Bindings()); n > 0 {
		p.selected = (p.selected + 1) % n
	}
}

func (p *Panel) SelectPrevious() {
	if n := len(p.Bindings()); n > 0 {
		p.selected = (p.selected - 1 + n) % n
	}
}

// HandleKey maps Tab/Up/Down to selection and Left/Right to one step on the
// selected binding. It reports whether the key was consumed.
func (p *Panel) HandleKey(key core.KeyCode) bool {
	sel := p.Selected()
	if sel == nil {
		return false
	}
	switch key {
	case core.KEY_TAB, core.KEY_DOWN:
		p.SelectNext()
	case core.KEY_UP:
		p.SelectPrevious()
	case core.KEY_LEFT:
		if err := sel.Nudge(-1); err != nil {
			core.LogError("panel: %s", err)
		}
	case core.KEY_RIGHT:
		if err := sel.Nudge(1); err != nil {
			core.LogError("panel: %s", err)
		}
	default:
		return false
	}
	return true
}

// View renders the panel as text.
func (p *Panel) View() string {
	sel := p.Selected()
	lines := []string{titleStyle.Render(p.Title)}
	for _, f := range p.folders {
		marker := "▾"
		if !f.Expanded {
			marker = "▸"
		}
		lines = append(lines, folderStyle.Render(marker+" "+f.Title))
		if !f.Expanded {
			continue
		}
		for _, b := range f.bindings {
			style := rowStyle
			if b == sel {
				style = selectedStyle
			}
			lines = append(lines, style.Render(b.row()))
		}
	}
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (b *Binding) row() string {
	v := b.Value()
	filled := 0
	if span := b.params.Max - b.params.Min; span > 0 {
		filled = int((v-b.params.Min)/span*sliderWidth + 0.5)
	}
	filled = min(max(filled, 0), sliderWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", sliderWidth-filled)
	return fmt.Sprintf("%-20s %s %.2f", b.params.Label, bar, v)
}
