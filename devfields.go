package fitcore

import (
	"encoding/hex"
	"fmt"
)

// devFieldKey identifies one developer field definition: the artificial
// type code (devFieldTypeOffset + developer-data-index) and the numeric
// field-definition-number, matching §4.8's
// dev_field_types[(1000+d, n)] -> (stable key, base type).
type devFieldKey struct {
	TypeCode    int
	FieldNumber uint8
}

type devFieldMeta struct {
	StableKey string
	BaseType  FitType
}

// DeveloperFieldRegistry is the decoder-local state described in §4.4: a
// table of developer-field type definitions learned from field-description
// messages, plus the developer-data-index → application-guid table learned
// from developer-data-id messages. It is rebuilt fresh for every decode
// (unlike the §6 xdata_registry, which is process-wide and long-lived — see
// package xdata).
type DeveloperFieldRegistry struct {
	devFieldTypes map[devFieldKey]devFieldMeta
	appDefs       map[uint8]string
}

func newDeveloperFieldRegistry() *DeveloperFieldRegistry {
	return &DeveloperFieldRegistry{
		devFieldTypes: make(map[devFieldKey]devFieldMeta),
		appDefs:       make(map[uint8]string),
	}
}

// RecordAppDef records the application guid for a developer-data-index,
// learned from a developer-data-id message.
func (r *DeveloperFieldRegistry) RecordAppDef(ddi uint8, applicationGUID string) {
	r.appDefs[ddi] = applicationGUID
}

// Describe computes the stable key for a field-description message (§4.8)
// and records it, keyed by (1000+ddi, fieldNumber), alongside the field's
// true base type. It returns the computed key so the caller can attach a
// field-key entry to the decoded record.
func (r *DeveloperFieldRegistry) Describe(ddi, fieldNumber uint8, baseType FitType, fieldName string) string {
	key := stableDevFieldKey(r.appDefs, ddi, fieldNumber, fieldName)
	r.devFieldTypes[devFieldKey{TypeCode: devFieldTypeOffset + int(ddi), FieldNumber: fieldNumber}] = devFieldMeta{
		StableKey: key,
		BaseType:  baseType,
	}
	return key
}

// stableDevFieldKey implements §4.8: "<application-guid>-<field-number>"
// when the application id is known for ddi, otherwise the raw field name
// promoted to a symbol.
func stableDevFieldKey(appDefs map[uint8]string, ddi, fieldNumber uint8, fieldName string) string {
	if guid, ok := appDefs[ddi]; ok && guid != "" {
		return fmt.Sprintf("%s-%d", guid, fieldNumber)
	}
	return fieldName
}

// Lookup resolves a developer field value's (developer-data-index,
// field-number) to its stable key and true base type. Unknown pairs are the
// decoder's ErrUnknownDevField condition.
func (r *DeveloperFieldRegistry) Lookup(ddi, fieldNumber uint8) (devFieldMeta, error) {
	meta, ok := r.devFieldTypes[devFieldKey{TypeCode: devFieldTypeOffset + int(ddi), FieldNumber: fieldNumber}]
	if !ok {
		return devFieldMeta{}, fmt.Errorf("%w: ddi=%d field=%d", ErrUnknownDevField, ddi, fieldNumber)
	}
	return meta, nil
}

// hexLower16 renders a 16-byte developer-id or application-id as a
// lowercase hex string, matching the developer-data-id handler in §4.4.
func hexLower16(raw []byte) string {
	return hex.EncodeToString(raw)
}
