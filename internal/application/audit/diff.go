package audit

import (
	"encoding/json"
	"reflect"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// Campos de control que nunca se registran como cambio.
var ignoredFields = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
}

// toMap convierte un snapshot (struct con tags json o mapa) en mapa plano.
func toMap(v any) map[string]any {
	if v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// Diff compara dos snapshots y devuelve solo los campos cambiados, aplicando las listas de la
// configuración. Si uno de los dos es nil devuelve el otro completo (alta o baja).
func Diff(oldSnap, newSnap any, cfg *entity.AuditConfiguration) (oldValues, newValues map[string]any) {
	oldMap, newMap := toMap(oldSnap), toMap(newSnap)
	oldValues, newValues = map[string]any{}, map[string]any{}

	keys := map[string]struct{}{}
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}
	for k := range keys {
		if _, skip := ignoredFields[k]; skip {
			continue
		}
		if cfg != nil && !cfg.FieldTracked(k) {
			continue
		}
		ov, inOld := oldMap[k]
		nv, inNew := newMap[k]
		switch {
		case oldMap == nil:
			newValues[k] = nv
		case newMap == nil:
			oldValues[k] = ov
		case !inOld:
			newValues[k] = nv
		case !inNew:
			oldValues[k] = ov
		case !reflect.DeepEqual(ov, nv):
			oldValues[k] = ov
			newValues[k] = nv
		}
	}
	return oldValues, newValues
}

func marshalOrNil(m map[string]any) json.RawMessage {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return raw
}
