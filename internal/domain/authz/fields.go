package authz

import (
	"encoding/json"
	"maps"
	"slices"
)

// RequestedFields devuelve las claves del payload, ordenadas.
func RequestedFields(payload map[string]json.RawMessage) []string {
	return slices.Sorted(maps.Keys(payload))
}

// Project proyecta payload sobre allowed. Devuelve las claves conservadas y las descartadas
// (ordenadas). Los nombres de campo nunca salen de aquí hacia SQL: el llamador decodifica
// lo conservado a un patch tipado.
func Project(payload map[string]json.RawMessage, allowed []string) (map[string]json.RawMessage, []string) {
	kept := make(map[string]json.RawMessage, len(allowed))
	var dropped []string
	for _, k := range RequestedFields(payload) {
		if slices.Contains(allowed, k) {
			kept[k] = payload[k]
			continue
		}
		dropped = append(dropped, k)
	}
	return kept, dropped
}
