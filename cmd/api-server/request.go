package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/model"
)

const _customTimeLayout = "2006-01-02 15:04:05 MST"

func idFromRequest(r *http.Request, param string) (model.ID, error) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	return model.ID(id), err
}

func camaraIDFromRequest(r *http.Request) (model.ID, error) {
	return idFromRequest(r, "camaraId")
}

func vereadorIDFromRequest(r *http.Request) (model.ID, error) {
	return idFromRequest(r, "vereadorId")
}

func sessaoIDFromRequest(r *http.Request) (model.ID, error) {
	return idFromRequest(r, "sessaoId")
}

func projetoIDFromRequest(r *http.Request) (model.ID, error) {
	return idFromRequest(r, "projetoId")
}

func timeQueryParams(r *http.Request, key string, layout ...string) (time.Time, bool, error) {
	layout = append(layout, _customTimeLayout)
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return time.Time{}, false, nil
	}
	val = strings.TrimPrefix(val, "'")
	val = strings.TrimPrefix(val, "\"")
	val = strings.TrimSuffix(val, "'")
	val = strings.TrimSuffix(val, "\"")
	t, err := time.Parse(layout[0], val)
	return t, true, err
}

func defaultIntQueryParams(r *http.Request, key string, def int) int {
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

func optionalStringQueryParams(r *http.Request, key string) *string {
	ref := new(string)
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return nil
	}
	*ref = val
	return ref
}

func optionalIDQueryParams(r *http.Request, key string) *model.ID {
	ref := new(model.ID)
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return nil
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	*ref = model.ID(intVal)
	return ref
}

func findOptionsFromRequest(r *http.Request) database.FindOptions {
	return database.FindOptions{
		Limit:  defaultIntQueryParams(r, "limit", database.DefaultLimit),
		Offset: defaultIntQueryParams(r, "offset", database.DefaultOffset),
	}
}
