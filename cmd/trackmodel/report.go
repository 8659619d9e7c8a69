package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/Faultbox/trackmaker/internal/model"
	"github.com/Faultbox/trackmaker/internal/texture"
	"github.com/Faultbox/trackmaker/pkg/math"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func fmtVec(v math.Vec3) string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g)", v.X, v.Y, v.Z)
}

func fmtBounds(b math.Bounds) string {
	return fmtVec(b.Min) + " - " + fmtVec(b.Max)
}

func fmtHandle(h texture.Handle) string {
	if h == texture.NoTexture {
		return "-"
	}
	return fmt.Sprintf("%d", h)
}

// writeModel prints the mesh table of one model.
func writeModel(w io.Writer, m *model.Model) {
	stats := m.Stats()
	fmt.Fprintf(w, "%s (%s)\n", m.Name, m.Path)

	table := newTable(w, "Mesh", "Faces", "Texture", "Handle")
	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		tex := "-"
		if mesh.TexturePath != "" {
			tex = filepath.Base(mesh.TexturePath)
		}
		table.Append([]string{
			mesh.Material,
			fmt.Sprintf("%d", len(mesh.Faces)),
			tex,
			fmtHandle(mesh.Texture),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", stats.Faces), fmt.Sprintf("%d textured", stats.Textured), ""})
	table.Render()

	fmt.Fprintf(w, "vertices:    %d\n", stats.Vertices)
	fmt.Fprintf(w, "bounds:      %s\n", fmtBounds(m.Bounds))
	fmt.Fprintf(w, "size:        %s\n", fmtVec(m.Bounds.Size()))
	fmt.Fprintf(w, "collision:   %d meshes, %d faces\n", stats.CollisionMeshes, stats.CollisionFaces)
	fmt.Fprintf(w, "attachments: %d\n", stats.Attachments)
	if m.UsesColor() {
		fmt.Fprintln(w, "shading:     flat color (no textured meshes)")
	}
	fmt.Fprintln(w)
}

// writeCollision prints the collision meshes of one model.
func writeCollision(w io.Writer, m *model.Model) {
	fmt.Fprintf(w, "%s\n", m.Name)
	if len(m.Collision) == 0 {
		fmt.Fprintln(w, "  no collision data")
		fmt.Fprintln(w)
		return
	}

	table := newTable(w, "Group", "Kind", "Faces", "Vertices")
	for i := range m.Collision {
		c := &m.Collision[i]
		table.Append([]string{
			c.Group,
			c.Kind.String(),
			fmt.Sprintf("%d", len(c.Faces)),
			fmt.Sprintf("%d", len(c.Vertices)),
		})
	}
	table.Render()
	fmt.Fprintln(w)
}

// writeAttachments prints the attachment points of one model.
func writeAttachments(w io.Writer, m *model.Model, withMatrix bool) {
	fmt.Fprintf(w, "%s\n", m.Name)
	if len(m.Attachments) == 0 {
		fmt.Fprintln(w, "  no attachments")
		fmt.Fprintln(w)
		return
	}

	table := newTable(w, "Name", "First", "Female", "Position")
	for _, a := range m.Attachments {
		table.Append([]string{
			a.Name,
			fmt.Sprintf("%t", a.IsFirst),
			fmt.Sprintf("%t", a.IsFemale),
			fmtVec(a.Position()),
		})
	}
	table.Render()

	if withMatrix {
		for _, a := range m.Attachments {
			fmt.Fprintf(w, "%s:\n", a.Name)
			mt := newTable(w, "", "c0", "c1", "c2", "c3")
			for r := 0; r < 4; r++ {
				row := a.Transform.Row(r)
				mt.Append([]string{
					fmt.Sprintf("r%d", r),
					fmt.Sprintf("%g", row[0]),
					fmt.Sprintf("%g", row[1]),
					fmt.Sprintf("%g", row[2]),
					fmt.Sprintf("%g", row[3]),
				})
			}
			mt.Render()
		}
	}
	fmt.Fprintln(w)
}

// writeTextures prints every texture the cache resolved, by handle.
func writeTextures(w io.Writer, infos []texture.Info, hits, misses int) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].Handle < infos[j].Handle })

	table := newTable(w, "Handle", "Path", "Format", "Size")
	for _, info := range infos {
		size := "-"
		if info.Width > 0 {
			size = fmt.Sprintf("%dx%d", info.Width, info.Height)
		}
		format := info.Format
		if format == "" {
			format = "-"
		}
		table.Append([]string{fmtHandle(info.Handle), info.Path, format, size})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d hits / %d misses", hits, misses), "", ""})
	table.Render()
}
