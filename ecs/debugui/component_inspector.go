package debugui

import (
	"fmt"
	"reflect"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ironrails/ecs"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	entityIdType = reflect.TypeOf(ecs.EntityId(0))
)

type ComponentInspector struct {
	selectedEntityId ecs.EntityId
}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(reg *ecs.Registry, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity, ok := reg.Get(ci.selectedEntityId)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d was removed", ci.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity.Id))
	imgui.Text(fmt.Sprintf("Kind: %s", entity.Kind))
	imgui.Separator()

	for _, name := range reg.Components(entity.Id) {
		component := reg.Component(entity.Id, name)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(name) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderComponent draws the exported fields of a component pointer. Edits
// write straight through the pointer into the store.
func (ci *ComponentInspector) renderComponent(component any) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Name, fieldVal, field)
	}
}

func (ci *ComponentInspector) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch {
	case field.IsDuration:
		v := float32(time.Duration(val.Int()).Seconds() * 1000)
		imgui.Text(fmt.Sprintf("%s (ms):", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(time.Duration(float64(v) * float64(time.Millisecond))))
		}
		return

	case field.IsEntityRef:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s, ok := val.Interface().(fmt.Stringer); ok {
			imgui.Text(fmt.Sprintf("%s: %s", name, s))
			return
		}
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Name, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Interface:
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		imgui.Text(fmt.Sprintf("%s: %T", name, val.Interface()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
