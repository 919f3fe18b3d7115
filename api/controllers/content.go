package controllers

import (
	"context"
	"net/http"

	"github.com/educateagirl/storefront-api/api/responses"
	"github.com/educateagirl/storefront-api/api/validators"
	"github.com/educateagirl/storefront-api/internal/journey"
	"github.com/educateagirl/storefront-api/internal/programs"
	"github.com/educateagirl/storefront-api/internal/stories"
	"github.com/educateagirl/storefront-api/internal/team"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

// contentService is the shape shared by the site content resources
// (stories, team, journey, programs).
type contentService[T, In any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id int64, in In) (*T, error)
	Delete(ctx context.Context, id int64) error
}

func ListStories(svc stories.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent[stories.Story, stories.Input]("story", svc, logg)
}

func CreateStory(svc stories.Service, logg *logger.Logger) http.HandlerFunc {
	return createContent[stories.Story, stories.Input]("story", svc, logg)
}

func UpdateStory(svc stories.Service, logg *logger.Logger) http.HandlerFunc {
	return updateContent[stories.Story, stories.Input]("story", svc, logg)
}

func DeleteStory(svc stories.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteContent[stories.Story, stories.Input]("story", svc, logg)
}

func ListTeam(svc team.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent[team.Member, team.Input]("team", svc, logg)
}

func CreateTeamMember(svc team.Service, logg *logger.Logger) http.HandlerFunc {
	return createContent[team.Member, team.Input]("team", svc, logg)
}

func UpdateTeamMember(svc team.Service, logg *logger.Logger) http.HandlerFunc {
	return updateContent[team.Member, team.Input]("team", svc, logg)
}

func DeleteTeamMember(svc team.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteContent[team.Member, team.Input]("team", svc, logg)
}

func ListJourney(svc journey.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent[journey.Entry, journey.Input]("journey", svc, logg)
}

func CreateJourneyEntry(svc journey.Service, logg *logger.Logger) http.HandlerFunc {
	return createContent[journey.Entry, journey.Input]("journey", svc, logg)
}

func UpdateJourneyEntry(svc journey.Service, logg *logger.Logger) http.HandlerFunc {
	return updateContent[journey.Entry, journey.Input]("journey", svc, logg)
}

func DeleteJourneyEntry(svc journey.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteContent[journey.Entry, journey.Input]("journey", svc, logg)
}

func ListPrograms(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return listContent[programs.Program, programs.Input]("program", svc, logg)
}

func CreateProgram(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return createContent[programs.Program, programs.Input]("program", svc, logg)
}

func UpdateProgram(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return updateContent[programs.Program, programs.Input]("program", svc, logg)
}

func DeleteProgram(svc programs.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteContent[programs.Program, programs.Input]("program", svc, logg)
}

func listContent[T, In any](name string, svc contentService[T, In], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(r.Context(), logg, w, name)
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orEmpty(rows))
	}
}

func createContent[T, In any](name string, svc contentService[T, In], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(r.Context(), logg, w, name)
			return
		}
		var input In
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

func updateContent[T, In any](name string, svc contentService[T, In], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(r.Context(), logg, w, name)
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input In
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func deleteContent[T, In any](name string, svc contentService[T, In], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(r.Context(), logg, w, name)
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDeleted(w)
	}
}
