package model

// ElementType identifies an ArchiMate element concept.
type ElementType string

// Layer groups element types into the ArchiMate layers.
type Layer string

// Layers of the ArchiMate framework.
const (
	LayerStrategy       Layer = "Strategy"
	LayerBusiness       Layer = "Business"
	LayerApplication    Layer = "Application"
	LayerTechnology     Layer = "Technology"
	LayerPhysical       Layer = "Physical"
	LayerMotivation     Layer = "Motivation"
	LayerImplementation Layer = "Implementation"
	LayerOther          Layer = "Other"
	LayerJunction       Layer = "Junction"
)

// Business layer element types.
const (
	BusinessActor         ElementType = "BusinessActor"
	BusinessRole          ElementType = "BusinessRole"
	BusinessCollaboration ElementType = "BusinessCollaboration"
	BusinessInterface     ElementType = "BusinessInterface"
	BusinessProcess       ElementType = "BusinessProcess"
	BusinessFunction      ElementType = "BusinessFunction"
	BusinessInteraction   ElementType = "BusinessInteraction"
	BusinessEvent         ElementType = "BusinessEvent"
	BusinessService       ElementType = "BusinessService"
	BusinessObject        ElementType = "BusinessObject"
	Contract              ElementType = "Contract"
	Representation        ElementType = "Representation"
	Product               ElementType = "Product"
)

// Application layer element types.
const (
	ApplicationComponent     ElementType = "ApplicationComponent"
	ApplicationInterface     ElementType = "ApplicationInterface"
	ApplicationCollaboration ElementType = "ApplicationCollaboration"
	ApplicationFunction      ElementType = "ApplicationFunction"
	ApplicationProcess       ElementType = "ApplicationProcess"
	ApplicationEvent         ElementType = "ApplicationEvent"
	ApplicationService       ElementType = "ApplicationService"
	DataObject               ElementType = "DataObject"
)

// Technology layer element types.
const (
	TechnologyNode          ElementType = "Node"
	Device                  ElementType = "Device"
	Path                    ElementType = "Path"
	CommunicationNetwork    ElementType = "CommunicationNetwork"
	SystemSoftware          ElementType = "SystemSoftware"
	TechnologyCollaboration ElementType = "TechnologyCollaboration"
	TechnologyInterface     ElementType = "TechnologyInterface"
	TechnologyFunction      ElementType = "TechnologyFunction"
	TechnologyProcess       ElementType = "TechnologyProcess"
	TechnologyInteraction   ElementType = "TechnologyInteraction"
	TechnologyEvent         ElementType = "TechnologyEvent"
	TechnologyService       ElementType = "TechnologyService"
	Artifact                ElementType = "Artifact"
)

// Physical element types.
const (
	Equipment           ElementType = "Equipment"
	Facility            ElementType = "Facility"
	DistributionNetwork ElementType = "DistributionNetwork"
	Material            ElementType = "Material"
)

// Motivation element types.
const (
	Stakeholder ElementType = "Stakeholder"
	Driver      ElementType = "Driver"
	Assessment  ElementType = "Assessment"
	Goal        ElementType = "Goal"
	Outcome     ElementType = "Outcome"
	Principle   ElementType = "Principle"
	Requirement ElementType = "Requirement"
	Constraint  ElementType = "Constraint"
	Meaning     ElementType = "Meaning"
	Value       ElementType = "Value"
)

// Strategy element types.
const (
	Resource       ElementType = "Resource"
	Capability     ElementType = "Capability"
	CourseOfAction ElementType = "CourseOfAction"
)

// Implementation and migration element types.
const (
	WorkPackage         ElementType = "WorkPackage"
	Deliverable         ElementType = "Deliverable"
	ImplementationEvent ElementType = "ImplementationEvent"
	Plateau             ElementType = "Plateau"
	Gap                 ElementType = "Gap"
)

// Composite and junction element types.
const (
	Grouping    ElementType = "Grouping"
	Location    ElementType = "Location"
	Junction    ElementType = "Junction"
	OrJunction  ElementType = "OrJunction"
	AndJunction ElementType = "AndJunction"
)

// RelationType identifies an ArchiMate relationship concept.
type RelationType string

// Relationship types.
const (
	Association    RelationType = "Association"
	Assignment     RelationType = "Assignment"
	Realization    RelationType = "Realization"
	Serving        RelationType = "Serving"
	Composition    RelationType = "Composition"
	Aggregation    RelationType = "Aggregation"
	Access         RelationType = "Access"
	Influence      RelationType = "Influence"
	Triggering     RelationType = "Triggering"
	Flow           RelationType = "Flow"
	Specialization RelationType = "Specialization"
)

// AccessType is the modifier carried by Access relationships.
type AccessType string

// Access relationship modifiers.
const (
	AccessAny       AccessType = "Access"
	AccessRead      AccessType = "Read"
	AccessWrite     AccessType = "Write"
	AccessReadWrite AccessType = "ReadWrite"
)

// elementLayers maps every valid element type to its layer.
// This is the single source of truth for element type validity.
var elementLayers = map[ElementType]Layer{
	BusinessActor:         LayerBusiness,
	BusinessRole:          LayerBusiness,
	BusinessCollaboration: LayerBusiness,
	BusinessInterface:     LayerBusiness,
	BusinessProcess:       LayerBusiness,
	BusinessFunction:      LayerBusiness,
	BusinessInteraction:   LayerBusiness,
	BusinessEvent:         LayerBusiness,
	BusinessService:       LayerBusiness,
	BusinessObject:        LayerBusiness,
	Contract:              LayerBusiness,
	Representation:        LayerBusiness,
	Product:               LayerBusiness,

	ApplicationComponent:     LayerApplication,
	ApplicationInterface:     LayerApplication,
	ApplicationCollaboration: LayerApplication,
	ApplicationFunction:      LayerApplication,
	ApplicationProcess:       LayerApplication,
	ApplicationEvent:         LayerApplication,
	ApplicationService:       LayerApplication,
	DataObject:               LayerApplication,

	TechnologyNode:          LayerTechnology,
	Device:                  LayerTechnology,
	Path:                    LayerTechnology,
	CommunicationNetwork:    LayerTechnology,
	SystemSoftware:          LayerTechnology,
	TechnologyCollaboration: LayerTechnology,
	TechnologyInterface:     LayerTechnology,
	TechnologyFunction:      LayerTechnology,
	TechnologyProcess:       LayerTechnology,
	TechnologyInteraction:   LayerTechnology,
	TechnologyEvent:         LayerTechnology,
	TechnologyService:       LayerTechnology,
	Artifact:                LayerTechnology,

	Equipment:           LayerPhysical,
	Facility:            LayerPhysical,
	DistributionNetwork: LayerPhysical,
	Material:            LayerPhysical,

	Stakeholder: LayerMotivation,
	Driver:      LayerMotivation,
	Assessment:  LayerMotivation,
	Goal:        LayerMotivation,
	Outcome:     LayerMotivation,
	Principle:   LayerMotivation,
	Requirement: LayerMotivation,
	Constraint:  LayerMotivation,
	Meaning:     LayerMotivation,
	Value:       LayerMotivation,

	Resource:       LayerStrategy,
	Capability:     LayerStrategy,
	CourseOfAction: LayerStrategy,

	WorkPackage:         LayerImplementation,
	Deliverable:         LayerImplementation,
	ImplementationEvent: LayerImplementation,
	Plateau:             LayerImplementation,
	Gap:                 LayerImplementation,

	Grouping: LayerOther,
	Location: LayerOther,

	Junction:    LayerJunction,
	OrJunction:  LayerJunction,
	AndJunction: LayerJunction,
}

// relationTypes is the set of valid relationship types.
var relationTypes = map[RelationType]bool{
	Association:    true,
	Assignment:     true,
	Realization:    true,
	Serving:        true,
	Composition:    true,
	Aggregation:    true,
	Access:         true,
	Influence:      true,
	Triggering:     true,
	Flow:           true,
	Specialization: true,
}

// accessTypes is the set of valid access modifiers.
var accessTypes = map[AccessType]bool{
	AccessAny:       true,
	AccessRead:      true,
	AccessWrite:     true,
	AccessReadWrite: true,
}

// Valid reports whether t is a known ArchiMate element type.
func (t ElementType) Valid() bool {
	_, ok := elementLayers[t]
	return ok
}

// Layer returns the ArchiMate layer of the element type,
// or LayerOther for unknown types.
func (t ElementType) Layer() Layer {
	if l, ok := elementLayers[t]; ok {
		return l
	}
	return LayerOther
}

// Valid reports whether t is a known ArchiMate relationship type.
func (t RelationType) Valid() bool {
	return relationTypes[t]
}

// Valid reports whether t is a known access modifier.
// The empty string is valid and means "no modifier".
func (t AccessType) Valid() bool {
	return t == "" || accessTypes[t]
}

// ElementTypes returns all valid element types in no particular order.
func ElementTypes() []ElementType {
	out := make([]ElementType, 0, len(elementLayers))
	for t := range elementLayers {
		out = append(out, t)
	}
	return out
}

// RelationTypes returns all valid relationship types in no particular order.
func RelationTypes() []RelationType {
	out := make([]RelationType, 0, len(relationTypes))
	for t := range relationTypes {
		out = append(out, t)
	}
	return out
}
