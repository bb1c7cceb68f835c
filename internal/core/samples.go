package core

import "fmt"

// Sample files offered for download. Each holds the same three sessions so a
// user can compare the formats side by side.
const (
	sampleCSV = `title,description,category,status,priority,duration,color,tags,notes,scheduledFor
Linear algebra review,Chapter 3 exercises,school,planned,high,90,#4f46e5,"math,exam",Bring notebook,2024-09-02T18:00:00Z
Go concurrency,Worker pools and pipelines,programming,planned,medium,60,#0ea5e9,"go,backend",,2024-09-03T19:30:00Z
Spanish vocabulary,Food and travel words,language,planned,low,30,#16a34a,spanish,Use flashcards,2024-09-04T07:15:00Z
`

	sampleJSON = `{
  "sessions": [
    {
      "title": "Linear algebra review",
      "description": "Chapter 3 exercises",
      "category": "school",
      "status": "planned",
      "priority": "high",
      "durationMinutes": 90,
      "color": "#4f46e5",
      "tags": ["math", "exam"],
      "notes": "Bring notebook",
      "scheduledFor": "2024-09-02T18:00:00Z"
    },
    {
      "title": "Go concurrency",
      "description": "Worker pools and pipelines",
      "category": "programming",
      "status": "planned",
      "priority": "medium",
      "durationMinutes": 60,
      "color": "#0ea5e9",
      "tags": ["go", "backend"],
      "scheduledFor": "2024-09-03T19:30:00Z"
    },
    {
      "title": "Spanish vocabulary",
      "description": "Food and travel words",
      "category": "language",
      "status": "planned",
      "priority": "low",
      "durationMinutes": 30,
      "color": "#16a34a",
      "tags": ["spanish"],
      "notes": "Use flashcards",
      "scheduledFor": "2024-09-04T07:15:00Z"
    }
  ]
}
`

	sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<sessions>
  <session>
    <title>Linear algebra review</title>
    <description>Chapter 3 exercises</description>
    <category>school</category>
    <status>planned</status>
    <priority>high</priority>
    <durationMinutes>90</durationMinutes>
    <color>#4f46e5</color>
    <tags><tag>math</tag><tag>exam</tag></tags>
    <notes>Bring notebook</notes>
    <scheduledFor>2024-09-02T18:00:00Z</scheduledFor>
  </session>
  <session>
    <title>Go concurrency</title>
    <description>Worker pools and pipelines</description>
    <category>programming</category>
    <status>planned</status>
    <priority>medium</priority>
    <durationMinutes>60</durationMinutes>
    <color>#0ea5e9</color>
    <tags><tag>go</tag><tag>backend</tag></tags>
    <scheduledFor>2024-09-03T19:30:00Z</scheduledFor>
  </session>
  <session>
    <title>Spanish vocabulary</title>
    <description>Food and travel words</description>
    <category>language</category>
    <status>planned</status>
    <priority>low</priority>
    <durationMinutes>30</durationMinutes>
    <color>#16a34a</color>
    <tags><tag>spanish</tag></tags>
    <notes>Use flashcards</notes>
    <scheduledFor>2024-09-04T07:15:00Z</scheduledFor>
  </session>
</sessions>
`
)

// SampleFile is a downloadable example import.
type SampleFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// Sample returns the example file for format.
func Sample(format Format) (SampleFile, error) {
	switch format {
	case FormatCSV:
		return SampleFile{Name: "sessions_sample.csv", ContentType: "text/csv", Content: []byte(sampleCSV)}, nil
	case FormatJSON:
		return SampleFile{Name: "sessions_sample.json", ContentType: "application/json", Content: []byte(sampleJSON)}, nil
	case FormatXML:
		return SampleFile{Name: "sessions_sample.xml", ContentType: "application/xml", Content: []byte(sampleXML)}, nil
	default:
		return SampleFile{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
