// Package harness runs query scenarios against a seeded in-memory store.
//
// A scenario is a YAML file naming a fixture document, a fixed "now" and a
// list of steps. Each step is a request document in the same shape the CLI
// accepts, plus an optional expect clause:
//
//	name: weekly_review
//	now: 2024-03-06T12:00:00Z
//	fixtures: ../../store/testdata/fixtures.yaml
//	steps:
//	  - name: globex_sessions
//	    request:
//	      entity_type: work_session
//	      filters:
//	        - {field: project.client.name, operator: eq, value: Globex}
//	    expect:
//	      ids: [ws-3, ws-1]
//
// Every step is executed through service.Service, so plans, SQL and result
// conversion are the production ones. Run returns a Result with one
// StepTrace per step; RunWithGolden additionally compares the canonical JSON
// of the trace against testdata/golden/<name>.golden.
package harness
