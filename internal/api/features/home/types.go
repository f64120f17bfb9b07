package home

// Info identifies the running service in the index document.
type Info struct {
	Name    string
	Version string
}

// Endpoints lists the API paths advertised by the index document.
var Endpoints = map[string]string{
	"index":     "GET /api",
	"tables":    "GET /api/tables",
	"tableData": "GET /api/tables/{tableName}?page=&limit=",
	"query":     "POST /api/query",
	"health":    "GET /healthz",
	"metrics":   "GET /metrics",
}
