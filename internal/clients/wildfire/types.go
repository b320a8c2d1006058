// Package wildfire is the client for the NIFC current wildland fire perimeters
// feature service
package wildfire

import (
	"github.com/dpup/trailfire/server/internal/lib/fire"
)

// FeatureQueryResponse is the ArcGIS FeatureServer query response
type FeatureQueryResponse struct {
	Features []Feature   `json:"features"`
	Error    *QueryError `json:"error,omitempty"`
}

// QueryError is returned in the body when a query is rejected
type QueryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Feature is one fire perimeter
type Feature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *Geometry      `json:"geometry"`
}

// Geometry holds polygon rings of [lon, lat] pairs
type Geometry struct {
	Rings [][][2]float64 `json:"rings"`
}

// Attribute names differ between perimeter layers, so each value is taken
// from the first populated field
var (
	nameFields        = []string{"poly_IncidentName", "irwin_IncidentName", "IncidentName"}
	acresFields       = []string{"poly_GISAcres", "attr_IncidentSize"}
	containmentFields = []string{"attr_PercentContained", "irwin_PercentContained"}
)

func (f Feature) toRecord() fire.RawFireRecord {
	record := fire.RawFireRecord{
		Name:        f.stringAttr(nameFields...),
		Acres:       f.floatAttr(acresFields...),
		Containment: f.floatAttr(containmentFields...),
	}
	if f.Geometry != nil {
		record.Rings = f.Geometry.Rings
	}
	return record
}

func (f Feature) stringAttr(keys ...string) string {
	for _, key := range keys {
		if s, ok := f.Attributes[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (f Feature) floatAttr(keys ...string) *float64 {
	for _, key := range keys {
		if v, ok := f.Attributes[key].(float64); ok {
			return &v
		}
	}
	return nil
}
