package testutils

import (
	"testing"

	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/dsl"
	"github.com/stretchr/testify/require"
)

// Fixture ids shared by tests across packages.
const (
	FixtureFont     = "1|Arial|14.0|0|WINDOWS|1|0|0|0|0|0|0|0|0|1|0|0|0|0|Arial"
	FixtureViews    = "e64e9b49"
	FixtureLayered  = "4056"
	FixtureOverview = "4200"
)

// FixtureBuilder declares the shared test model:
//
//	model
//	├── business: e-customer, e-role, e-service, e-process, e-object
//	├── application: e-app, e-appsvc
//	├── relations: r-assign, r-serve, r-realize, r-access, r-appserve
//	└── e64e9b49 (Views)
//	    ├── 4056 Layered View
//	    │   ├── 4096 group: 4104 (service, holds c-serve), 4120 (role), 4112 (process, holds c-realize)
//	    │   ├── 3707 group: 3708, 3709 (holds c-appserve), 3710 note, 3711, 3712, 3713 group
//	    │   └── 3657 reference to 4200
//	    └── 4200 Overview: 4201 (customer, holds c-assign), 4202 (role)
func FixtureBuilder() *dsl.Builder {
	b := dsl.New("model", "Archisurance Test")

	b.Folder("business", "Business")
	b.Element("e-customer", "BusinessActor", "Customer").In("business").Doc("A person or organisation insured by us.")
	b.Element("e-role", "BusinessRole", "Insurant").In("business")
	b.Element("e-service", "BusinessService", "Claim Registration Service").In("business")
	b.Element("e-process", "BusinessProcess", "Handle Claim").In("business")
	b.Element("e-object", "BusinessObject", "Claim").In("business")

	b.Folder("application", "Application")
	b.Element("e-app", "ApplicationComponent", "CRM System").In("application")
	b.Element("e-appsvc", "ApplicationService", "Policy Data Service").In("application")

	b.Folder("relations", "Relations")
	b.Relationship("r-assign", "AssignmentRelationship", "e-customer", "e-role").In("relations")
	b.Relationship("r-serve", "ServingRelationship", "e-service", "e-role").In("relations")
	b.Relationship("r-realize", "RealizationRelationship", "e-process", "e-service").In("relations")
	b.Relationship("r-access", "AccessRelationship", "e-process", "e-object").In("relations")
	b.Relationship("r-appserve", "ServingRelationship", "e-appsvc", "e-process").In("relations")

	b.Folder(FixtureViews, "Views")

	layered := b.Add(FixtureLayered).Type("ArchimateDiagramModel").Name("Layered View").In(FixtureViews)

	business := b.Add("4096").Type("DiagramModelGroup").Name("Business Layer").In(layered.ID()).
		Bounds(480, 20, 400, 300)
	business.Object("4104", "e-service").Bounds(20, 25, 101, 60).
		Connect("c-serve", "4120", "r-serve")
	business.Object("4120", "e-role").Bounds(200, 25, 120, 55)
	business.Object("4112", "e-process").Bounds(20, 160, 120, 55).Attr("lineWidth", 2).
		Connect("c-realize", "4104", "r-realize")

	app := b.Add("3707").Type("DiagramModelGroup").Name("Application Layer").In(layered.ID()).
		Bounds(20, 20, 440, 500).
		Attr("font", FixtureFont).
		Attr("fillColor", "#ffff80")
	app.Object("3708", "e-app").Bounds(20, 40, 120, 55)
	app.Object("3709", "e-appsvc").Bounds(200, 40, 120, 55).
		Connect("c-appserve", "4112", "r-appserve")
	b.Add("3710").Type("DiagramModelNote").In("3707").Doc("Only the claim flow is shown.").Bounds(20, 120, 185, 80)
	app.Object("3711", "e-customer").Bounds(200, 120, 120, 55)
	app.Object("3712", "e-object").Bounds(20, 220, 120, 55)
	b.Add("3713").Type("DiagramModelGroup").Name("Nested Group").In("3707").Bounds(20, 300, 300, 150)

	b.Add("3657").Type("DiagramModelReference").Shows(FixtureOverview).In(layered.ID()).Bounds(500, 400, 120, 55)

	overview := b.Add(FixtureOverview).Type("ArchimateDiagramModel").Name("Overview").In(FixtureViews)
	overview.Object("4201", "e-customer").Bounds(20, 20, 120, 55).
		Connect("c-assign", "4202", "r-assign")
	overview.Object("4202", "e-role").Bounds(220, 20, 120, 55)

	return b
}

// Fixture builds a fresh copy of the shared test model.
func Fixture(t testing.TB) *domain.Model {
	t.Helper()
	m, err := FixtureBuilder().Build()
	require.NoError(t, err, "fixture model must build")
	return m
}
