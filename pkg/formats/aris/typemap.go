package aris

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/model"
)

// symbolMap maps ARIS symbol numbers (ST_*) to element type names and ARIS
// connector types (CT_*) to relationship type names. A value mapped to the
// empty string means the symbol is deliberately suppressed: records carrying
// it are dropped without error.
var symbolMap = map[string]string{
	// Business layer
	"ST_ARCHIMATE_BUSINESS_ACTOR":         "BusinessActor",
	"ST_ARCHIMATE_BUSINESS_ROLE":          "BusinessRole",
	"ST_ARCHIMATE_BUSINESS_COLLABORATION": "BusinessCollaboration",
	"ST_ARCHIMATE_BUSINESS_INTERFACE":     "BusinessInterface",
	"ST_ARCHIMATE_BUSINESS_PROCESS":       "BusinessProcess",
	"ST_ARCHIMATE_BUSINESS_FUNCTION":      "BusinessFunction",
	"ST_ARCHIMATE_BUSINESS_INTERACTION":   "BusinessInteraction",
	"ST_ARCHIMATE_BUSINESS_EVENT":         "BusinessEvent",
	"ST_ARCHIMATE_BUSINESS_SERVICE":       "BusinessService",
	"ST_ARCHIMATE_BUSINESS_OBJECT":        "BusinessObject",
	"ST_ARCHIMATE_CONTRACT":               "Contract",
	"ST_ARCHIMATE_REPRESENTATION":         "Representation",
	"ST_ARCHIMATE_PRODUCT":                "Product",

	// Application layer
	"ST_ARCHIMATE_APPLICATION_COMPONENT":     "ApplicationComponent",
	"ST_ARCHIMATE_APPLICATION_INTERFACE":     "ApplicationInterface",
	"ST_ARCHIMATE_APPLICATION_COLLABORATION": "ApplicationCollaboration",
	"ST_ARCHIMATE_APPLICATION_FUNCTION":      "ApplicationFunction",
	"ST_ARCHIMATE_APPLICATION_PROCESS":       "ApplicationProcess",
	"ST_ARCHIMATE_APPLICATION_EVENT":         "ApplicationEvent",
	"ST_ARCHIMATE_APPLICATION_SERVICE":       "ApplicationService",
	"ST_ARCHIMATE_DATA_OBJECT":               "DataObject",
	// ServiceNow CMDB exports use this for application systems
	"ST_APPL_SYS_TYPE": "ApplicationComponent",

	// Technology layer
	"ST_ARCHIMATE_NODE":                     "Node",
	"ST_ARCHIMATE_DEVICE":                   "Device",
	"ST_ARCHIMATE_PATH":                     "Path",
	"ST_ARCHIMATE_NETWORK":                  "CommunicationNetwork",
	"ST_ARCHIMATE_SYSTEM_SOFTWARE":          "SystemSoftware",
	"ST_ARCHIMATE_TECHNOLOGY_COLLABORATION": "TechnologyCollaboration",
	"ST_ARCHIMATE_TECHNOLOGY_INTERFACE":     "TechnologyInterface",
	"ST_ARCHIMATE_TECHNOLOGY_FUNCTION":      "TechnologyFunction",
	"ST_ARCHIMATE_TECHNOLOGY_PROCESS":       "TechnologyProcess",
	"ST_ARCHIMATE_TECHNOLOGY_INTERACTION":   "TechnologyInteraction",
	"ST_ARCHIMATE_TECHNOLOGY_EVENT":         "TechnologyEvent",
	"ST_ARCHIMATE_TECHNOLOGY_SERVICE":       "TechnologyService",
	"ST_ARCHIMATE_ARTIFACT":                 "Artifact",

	// Physical
	"ST_ARCHIMATE_EQUIPMENT":            "Equipment",
	"ST_ARCHIMATE_FACILITY":             "Facility",
	"ST_ARCHIMATE_DISTRIBUTION_NETWORK": "DistributionNetwork",
	"ST_ARCHIMATE_MATERIAL":             "Material",

	// Motivation
	"ST_ARCHIMATE_STAKEHOLDER": "Stakeholder",
	"ST_ARCHIMATE_DRIVER":      "Driver",
	"ST_ARCHIMATE_ASSESSMENT":  "Assessment",
	"ST_ARCHIMATE_GOAL":        "Goal",
	"ST_ARCHIMATE_OUTCOME":     "Outcome",
	"ST_ARCHIMATE_PRINCIPLE":   "Principle",
	"ST_ARCHIMATE_REQUIREMENT": "Requirement",
	"ST_ARCHIMATE_CONSTRAINT":  "Constraint",
	"ST_ARCHIMATE_MEANING":     "Meaning",
	"ST_ARCHIMATE_VALUE":       "Value",

	// Strategy
	"ST_ARCHIMATE_RESOURCE":         "Resource",
	"ST_ARCHIMATE_CAPABILITY":       "Capability",
	"ST_ARCHIMATE_COURSE_OF_ACTION": "CourseOfAction",

	// Implementation and migration
	"ST_ARCHIMATE_WORK_PACKAGE":         "WorkPackage",
	"ST_ARCHIMATE_DELIVERABLE":          "Deliverable",
	"ST_ARCHIMATE_IMPLEMENTATION_EVENT": "ImplementationEvent",
	"ST_ARCHIMATE_PLATEAU":              "Plateau",
	"ST_ARCHIMATE_GAP":                  "Gap",

	// Composite
	"ST_ARCHIMATE_GROUP":    "Grouping",
	"ST_ARCHIMATE_GROUPING": "Grouping",
	"ST_ARCHIMATE_LOCATION": "Location",

	// Junctions
	"ST_ARCHIMATE_AND_JUNCTION": "AndJunction",
	"ST_ARCHIMATE_OR_JUNCTION":  "OrJunction",
	"ST_ARCHIMATE_JUNCTION":     "AndJunction",

	// Connectors
	"CT_ARCHIMATE_ASSOCIATION":          "Association",
	"CT_ARCHIMATE_IS_ASSIGNED_TO":       "Assignment",
	"CT_ARCHIMATE_REALIZES":             "Realization",
	"CT_ARCHIMATE_SERVES":               "Serving",
	"CT_ARCHIMATE_IS_COMPOSED_OF":       "Composition",
	"CT_ARCHIMATE_AGGREGATES":           "Aggregation",
	"CT_ARCHIMATE_ACCESSES":             "Access",
	"CT_ARCHIMATE_INFLUENCES":           "Influence",
	"CT_ARCHIMATE_TRIGGERS":             "Triggering",
	"CT_ARCHIMATE_FLOW":                 "Flow",
	"CT_ARCHIMATE_IS_SPECIALIZATION_OF": "Specialization",
	"CT_ARCHIMATE_EXCHNG_INFO":          "Association",
}

// TypeMap resolves ARIS symbol and connector codes, with optional overrides
// layered on top of the built-in table.
type TypeMap struct {
	table map[string]string
}

// typeMapFile is the TOML shape of an override file:
//
//	[symbols]
//	ST_CUSTOM_APP = "ApplicationComponent"
//	ST_NOISE = ""            # suppress
//
//	[connectors]
//	CT_CUSTOM_LINK = "Association"
type typeMapFile struct {
	Symbols    map[string]string `toml:"symbols"`
	Connectors map[string]string `toml:"connectors"`
}

// NewTypeMap returns the built-in mapping, extended from the TOML override
// file at path when it is non-empty.
func NewTypeMap(path string) (*TypeMap, error) {
	tm := &TypeMap{table: make(map[string]string, len(symbolMap))}
	for k, v := range symbolMap {
		tm.table[k] = v
	}
	if path == "" {
		return tm, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "type map %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "type map %s", path)
	}
	var file typeMapFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err,
			"type map %s is not valid TOML", path)
	}
	for k, v := range file.Symbols {
		tm.table[k] = v
	}
	for k, v := range file.Connectors {
		tm.table[k] = v
	}
	return tm, nil
}

// ElementType resolves a symbol number. suppressed is true for symbols mapped
// to the empty string; an unmapped symbol is an error, since silently losing
// unknown concepts would corrupt the import.
func (tm *TypeMap) ElementType(symbol string) (et model.ElementType, suppressed bool, err error) {
	name, ok := tm.table[symbol]
	if !ok {
		return "", false, errors.New(errors.ErrCodeUnsupportedConceptType,
			"unmapped ARIS symbol %q", symbol)
	}
	if name == "" {
		return "", true, nil
	}
	et = model.ElementType(name)
	if !et.Valid() {
		return "", false, errors.New(errors.ErrCodeUnsupportedConceptType,
			"ARIS symbol %q maps to unknown element type %q", symbol, name)
	}
	return et, false, nil
}

// RelationType resolves a connector code, with the same suppression rule as
// ElementType.
func (tm *TypeMap) RelationType(code string) (rt model.RelationType, suppressed bool, err error) {
	name, ok := tm.table[code]
	if !ok {
		return "", false, errors.New(errors.ErrCodeUnsupportedConceptType,
			"unmapped ARIS connector %q", code)
	}
	if name == "" {
		return "", true, nil
	}
	rt = model.RelationType(name)
	if !rt.Valid() {
		return "", false, errors.New(errors.ErrCodeUnsupportedConceptType,
			"ARIS connector %q maps to unknown relationship type %q", code, name)
	}
	return rt, false, nil
}
