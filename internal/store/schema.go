package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const visitEventsTable = "visit_events"

var (
	// VisitEventsColumns holds the columns for the "visit_events" table.
	VisitEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString, Default: ""},
	}
	// VisitEventsTable holds the schema information for the "visit_events" table.
	VisitEventsTable = &schema.Table{
		Name:       visitEventsTable,
		Columns:    VisitEventsColumns,
		PrimaryKey: []*schema.Column{VisitEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "visitevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{VisitEventsColumns[2]},
			},
			{
				Name:    "visitevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{VisitEventsColumns[3]},
			},
			{
				Name:    "visitevent_kind",
				Unique:  false,
				Columns: []*schema.Column{VisitEventsColumns[4]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		VisitEventsTable,
	}
)
