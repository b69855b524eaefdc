package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"github.com/obinnaokechukwu/vidcapinv"
)

// Output formats for list and watch.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type inventoryView struct {
	Devices []deviceView `json:"devices" yaml:"devices"`
}

type deviceView struct {
	ID      int          `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Formats []formatView `json:"formats" yaml:"formats"`
}

type formatView struct {
	Type       string `json:"type" yaml:"type"`
	Width      int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int    `json:"height,omitempty" yaml:"height,omitempty"`
	MinWidth   int    `json:"min_width,omitempty" yaml:"min_width,omitempty"`
	MaxWidth   int    `json:"max_width,omitempty" yaml:"max_width,omitempty"`
	StepWidth  int    `json:"step_width,omitempty" yaml:"step_width,omitempty"`
	MinHeight  int    `json:"min_height,omitempty" yaml:"min_height,omitempty"`
	MaxHeight  int    `json:"max_height,omitempty" yaml:"max_height,omitempty"`
	StepHeight int    `json:"step_height,omitempty" yaml:"step_height,omitempty"`
}

func newInventoryView(inv *vidcapinv.Inventory) inventoryView {
	v := inventoryView{Devices: make([]deviceView, 0, inv.Len())}
	for _, d := range inv.Devices() {
		dv := deviceView{ID: d.ID(), Name: d.Name(), Formats: []formatView{}}
		for _, f := range d.Formats() {
			switch f := f.(type) {
			case vidcapinv.Discrete:
				dv.Formats = append(dv.Formats, formatView{
					Type:  f.Kind().String(),
					Width: f.Width, Height: f.Height,
				})
			case vidcapinv.Stepwise:
				dv.Formats = append(dv.Formats, formatView{
					Type:     f.Kind().String(),
					MinWidth: f.MinWidth, MaxWidth: f.MaxWidth, StepWidth: f.StepWidth,
					MinHeight: f.MinHeight, MaxHeight: f.MaxHeight, StepHeight: f.StepHeight,
				})
			}
		}
		v.Devices = append(v.Devices, dv)
	}
	return v
}

func validOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output %q: use text, json or yaml", format)
}

func render(w io.Writer, inv *vidcapinv.Inventory, format string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newInventoryView(inv))
	case outputYAML:
		b, err := yaml.Marshal(newInventoryView(inv))
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case outputText:
		_, err := io.WriteString(w, renderText(inv))
		return err
	}
	return validOutput(format)
}

func renderText(inv *vidcapinv.Inventory) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Number of cameras: %d\n", inv.Len())
	for _, d := range inv.Devices() {
		fmt.Fprintf(&sb, "DeviceId: %d, Camera: %s\n", d.ID(), d.Name())
		for _, f := range d.Formats() {
			switch f := f.(type) {
			case vidcapinv.Discrete:
				fmt.Fprintf(&sb, "  %d x %d\n", f.Width, f.Height)
			case vidcapinv.Stepwise:
				fmt.Fprintf(&sb, "  %d->%d step %d  X  %d->%d step %d\n",
					f.MinWidth, f.MaxWidth, f.StepWidth, f.MinHeight, f.MaxHeight, f.StepHeight)
			}
		}
	}
	return sb.String()
}
