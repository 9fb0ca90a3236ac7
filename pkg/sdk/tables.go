package fuzzdex

import (
	"context"
	"net/http"
	"time"
)

// Tables lists the tables the service allows searching, with their key
// and searchable columns.
func (c *Client) Tables(ctx context.Context) (tables []Table, err error) {
	defer func(start time.Time) { c.obs.observe("tables", start, err) }(time.Now())

	var out tableList
	if err = c.do(ctx, http.MethodGet, "/v1/tables", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
