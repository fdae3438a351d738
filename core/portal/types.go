package portal

import (
	"context"

	"transmute/core/featureset"
	"transmute/core/results"
)

// Layer types reported by the portal.
const (
	LayerTypeFeatureLayer = "Feature Layer"
	LayerTypeTable        = "Table"
)

// Session is the set of portal operations a sync run needs.
type Session interface {
	// Item fetches a content item by id.
	Item(ctx context.Context, id string) (*Item, error)
	// Layers lists the layers (then tables) of a feature service item.
	Layers(ctx context.Context, item *Item) ([]LayerRef, error)
	// Layer fetches layer metadata, fields included.
	Layer(ctx context.Context, url string) (*LayerInfo, error)
	// Query returns every feature of layer matching where.
	Query(ctx context.Context, layer *LayerInfo, where string) (*featureset.FeatureSet, error)
	// ApplyEdits submits adds, updates and deletes in one request.
	ApplyEdits(ctx context.Context, layerURL string, adds, updates []featureset.Feature, deletes []int64) (*results.EditResponse, error)
}

// Item is a portal content item.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// LayerRef points at one layer or table of a service.
type LayerRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"-"`
}

// LayerInfo is the metadata of a layer or table.
type LayerInfo struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	ObjectIDField string            `json:"objectIdField"`
	GeometryType  string            `json:"geometryType,omitempty"`
	Fields        featureset.Schema `json:"fields"`
	URL           string            `json:"-"`
}

type serviceInfo struct {
	Layers []LayerRef `json:"layers"`
	Tables []LayerRef `json:"tables"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

type queryPage struct {
	featureset.FeatureSet
	ExceededTransferLimit bool `json:"exceededTransferLimit"`
}
