package seed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// inventario formato XML de exportación de inventario del taller. Las hojas de cálculo
// antiguas lo exportan en ISO-8859-1.
//
//	<inventario>
//	  <material nombre="Tuercas M8" cantidad="120" minimo="20" unidad="pcs"/>
//	</inventario>
type inventario struct {
	Materiales []struct {
		Nombre   string `xml:"nombre,attr"`
		Cantidad int    `xml:"cantidad,attr"`
		Minimo   *int   `xml:"minimo,attr"`
		Unidad   string `xml:"unidad,attr"`
	} `xml:"material"`
}

// ParseMaterialsXML lee un inventario XML (UTF-8 o ISO-8859-1). Las filas sin nombre se omiten.
func ParseMaterialsXML(r io.Reader) ([]entity.Material, error) {
	var inv inventario
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") || strings.EqualFold(charset, "latin1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&inv); err != nil {
		return nil, fmt.Errorf("decodificar inventario: %w", err)
	}
	out := make([]entity.Material, 0, len(inv.Materiales))
	for _, m := range inv.Materiales {
		name := strings.TrimSpace(m.Nombre)
		if name == "" {
			continue
		}
		mat := entity.Material{
			MaterialName: name,
			Quantity:     m.Cantidad,
			MinimumLevel: entity.DefaultMinimumLevel,
			Unit:         strings.TrimSpace(m.Unidad),
		}
		if m.Minimo != nil {
			mat.MinimumLevel = *m.Minimo
		}
		if mat.Unit == "" {
			mat.Unit = entity.DefaultUnit
		}
		out = append(out, mat)
	}
	return out, nil
}

// ImportMaterials crea los materiales cuyo nombre aún no existe. Devuelve cuántos creó.
func ImportMaterials(ctx context.Context, tx repository.TxRunner, materials []entity.Material) (int, error) {
	created := 0
	err := tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Materials.List(ctx, repository.MaterialFilter{})
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing))
		for _, m := range existing {
			seen[strings.ToLower(m.MaterialName)] = true
		}
		for i := range materials {
			key := strings.ToLower(materials[i].MaterialName)
			if seen[key] {
				continue
			}
			if err := r.Materials.Create(ctx, &materials[i]); err != nil {
				return err
			}
			seen[key] = true
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("importar materiales: %w", err)
	}
	return created, nil
}
