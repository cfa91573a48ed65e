package latent

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

// bindTag is the struct tag naming the secret a field receives.
const bindTag = "latent"

func init() {
	sentinel.Tag(bindTag)
}

var cellType = reflect.TypeFor[*Cell]()

// bindPlan lists the tagged fields of one struct type.
type bindPlan struct {
	typeName string
	fields   []bindField
}

// bindField locates one tagged *Cell field.
type bindField struct {
	index      []int
	hops       []bool // hops[i] marks index[i] as a struct pointer to allocate and follow
	name       string
	secret     string
	optional   bool
}

// Bind sets every *Cell field of target tagged `latent:"name"` to the store's
// cell of that name. Nested structs and struct pointers are followed; nil
// struct pointers on the way are allocated.
//
// A tag of the form `latent:"name,optional"` leaves the field untouched when
// the store has no such secret. Types implementing Binder are not scanned.
func Bind[T any](store *Store, target *T) error {
	typ := reflect.TypeFor[T]()
	if target == nil {
		return &ConfigError{Err: ErrInvalidTag, Detail: "bind target is nil"}
	}

	if b, ok := any(target).(Binder); ok {
		err := b.BindSecrets(store)
		emitBindComplete(context.Background(), typ.String(), 0, err)
		return err
	}

	plan, err := planFor[T]()
	if err != nil {
		emitBindComplete(context.Background(), typ.String(), 0, err)
		return err
	}

	count, err := plan.apply(store, reflect.ValueOf(target).Elem())
	emitBindComplete(context.Background(), plan.typeName, count, err)
	return err
}

func (p *bindPlan) apply(store *Store, root reflect.Value) (int, error) {
	count := 0
	for _, f := range p.fields {
		cell, err := store.Cell(f.secret)
		if err != nil {
			if f.optional && errors.Is(err, ErrUnknownSecret) {
				continue
			}
			return count, fmt.Errorf("field %s: %w", f.name, err)
		}
		fieldByPath(root, f.index, f.hops).Set(reflect.ValueOf(cell))
		count++
	}
	return count, nil
}

// fieldByPath walks index from root, allocating nil struct pointers where hops is set.
func fieldByPath(v reflect.Value, index []int, hops []bool) reflect.Value {
	for i, idx := range index {
		v = v.Field(idx)
		if hops[i] {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
	}
	return v
}

// hopMask marks the positions in ptrIndices across an index of length n.
func hopMask(n int, ptrIndices []int) []bool {
	hops := make([]bool, n)
	for _, p := range ptrIndices {
		hops[p] = true
	}
	return hops
}

// buildBindPlan scans T's struct tags.
func buildBindPlan[T any]() (*bindPlan, error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, &ConfigError{Err: ErrInvalidTag, Detail: fmt.Sprintf("bind target %s is not a struct", typ)}
	}

	spec := sentinel.Scan[T]()
	plan := &bindPlan{typeName: spec.TypeName}
	visited := map[reflect.Type]bool{typ: true}

	if err := buildBindPlanRecursive(plan, spec, nil, nil, "", visited); err != nil {
		return nil, err
	}
	return plan, nil
}

func buildBindPlanRecursive(plan *bindPlan, spec sentinel.Metadata, parentIndex, ptrIndices []int, namePrefix string, visited map[reflect.Type]bool) error {
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if namePrefix != "" {
			fullName = namePrefix + "." + field.Name
		}

		tag, tagged := field.Tags[bindTag]

		if field.ReflectType == cellType {
			if !tagged {
				continue
			}
			secret, optional, err := parseBindTag(tag)
			if err != nil {
				return fmt.Errorf("field %s: %w", fullName, err)
			}
			plan.fields = append(plan.fields, bindField{
				index:      fullIndex,
				hops:       hopMask(len(fullIndex), ptrIndices),
				name:       fullName,
				secret:     secret,
				optional:   optional,
			})
			continue
		}

		if tagged {
			return &ConfigError{Err: ErrInvalidTag, Detail: fmt.Sprintf("field %s has type %s, want *latent.Cell", fullName, field.ReflectType)}
		}

		// Handle nested structs
		if field.Kind == sentinel.KindStruct && !visited[field.ReflectType] {
			if nested := scanNestedType(field.ReflectType); nested != nil {
				visited[field.ReflectType] = true
				err := buildBindPlanRecursive(plan, *nested, fullIndex, ptrIndices, fullName, visited)
				delete(visited, field.ReflectType)
				if err != nil {
					return err
				}
			}
			continue
		}

		// Handle pointer to struct
		if field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Kind() == reflect.Struct && !visited[field.ReflectType.Elem()] {
			elem := field.ReflectType.Elem()
			if nested := scanNestedType(elem); nested != nil {
				newPtrIndices := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
				visited[elem] = true
				err := buildBindPlanRecursive(plan, *nested, fullIndex, newPtrIndices, fullName, visited)
				delete(visited, elem)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// parseBindTag splits `name[,optional]`.
func parseBindTag(tag string) (secret string, optional bool, err error) {
	parts := strings.Split(tag, ",")
	secret = strings.TrimSpace(parts[0])
	if secret == "" {
		return "", false, &ConfigError{Err: ErrInvalidTag, Detail: "empty secret name"}
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "optional":
			optional = true
		default:
			return "", false, &ConfigError{Err: ErrInvalidTag, Detail: fmt.Sprintf("unknown option %q", opt)}
		}
	}
	return secret, optional, nil
}

// scanNestedType scans a nested struct type and returns its metadata.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	if rt.Kind() != reflect.Struct {
		return nil
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if val, ok := sf.Tag.Lookup(bindTag); ok {
			fm.Tags[bindTag] = val
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}
