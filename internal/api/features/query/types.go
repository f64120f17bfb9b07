package query

// Request is the body of POST /api/query.
type Request struct {
	Query *string `json:"query"`
}

// ResultType is the resource type of raw query rows.
const ResultType = "query-result"

// maxBodyBytes caps the request body.
const maxBodyBytes = 1 << 20
