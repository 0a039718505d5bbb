package api

import (
	"net/http"
	"strconv"

	"github.com/warp/hr-records/compensation"
	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/performance"
	"github.com/warp/hr-records/planning"
	"github.com/warp/hr-records/recruitment"
	"github.com/warp/hr-records/relations"
	"github.com/warp/hr-records/training"
)

// Query parameters shared by every list endpoint:
//
//	q         free-text search (module decides which fields)
//	category  position for recruitment, case category for relations
//	year      created_at year, or the planning year
const (
	paramSearch    = "q"
	paramCategory  = "category"
	paramYear      = "year"
	paramAnonymous = "anonymous"
)

func planningQuery(r *http.Request) []generic.Filter[planning.Requirement] {
	v := r.URL.Query()
	return planning.Query{Demand: v.Get(paramSearch), Year: v.Get(paramYear)}.Filters()
}

func recruitmentQuery(r *http.Request) []generic.Filter[recruitment.Candidate] {
	v := r.URL.Query()
	return recruitment.Query{Keyword: v.Get(paramSearch), Position: v.Get(paramCategory)}.Filters()
}

func trainingQuery(r *http.Request) []generic.Filter[training.Course] {
	v := r.URL.Query()
	return training.Query{Keyword: v.Get(paramSearch), Year: v.Get(paramYear)}.Filters()
}

func performanceQuery(r *http.Request) []generic.Filter[performance.Review] {
	v := r.URL.Query()
	return performance.Query{Employee: v.Get(paramSearch), Year: v.Get(paramYear)}.Filters()
}

func compensationQuery(r *http.Request) []generic.Filter[compensation.Record] {
	v := r.URL.Query()
	return compensation.Query{Employee: v.Get(paramSearch), Year: v.Get(paramYear)}.Filters()
}

func relationsQuery(r *http.Request) []generic.Filter[relations.Case] {
	v := r.URL.Query()
	anon, _ := strconv.ParseBool(v.Get(paramAnonymous))
	return relations.Query{
		Keyword:       v.Get(paramSearch),
		Category:      v.Get(paramCategory),
		AnonymousOnly: anon,
	}.Filters()
}
