package services

import (
	"context"

	"lexfirm_api_go/repositories"
)

// DeleteResult reports what a delete of a reference entity did. Records still
// referenced by other rows are archived instead of removed.
type DeleteResult struct {
	Archived   bool  `json:"archived"`
	Dependents int64 `json:"dependents"`
}

// archiveOrRemove counts refs pointing at id and hands the count to remove.
func archiveOrRemove(ctx context.Context, repos *repositories.Repositories, id string, remove func(dependents int64) (bool, error), refs ...repositories.Reference) (*DeleteResult, error) {
	dependents, err := repos.CountReferences(ctx, id, refs...)
	if err != nil {
		return nil, err
	}
	archived, err := remove(dependents)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Archived: archived, Dependents: dependents}, nil
}

var (
	casesByClient      = repositories.Reference{Table: "cases", Column: "client_id"}
	casesByLawyer      = repositories.Reference{Table: "cases", Column: "lawyer_id"}
	casesByTribunal    = repositories.Reference{Table: "cases", Column: "tribunal_id"}
	casesByJudge       = repositories.Reference{Table: "cases", Column: "judge_id"}
	entriesByLawyer    = repositories.Reference{Table: "time_entries", Column: "lawyer_id"}
	hearingsByTribunal = repositories.Reference{Table: "hearings", Column: "tribunal_id"}
	hearingsByJudge    = repositories.Reference{Table: "hearings", Column: "judge_id"}
	judgesByTribunal   = repositories.Reference{Table: "judges", Column: "tribunal_id"}
)
