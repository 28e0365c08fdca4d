package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

func scanIDParam(r *http.Request) types.ScanID {
	return types.ScanID(chi.URLParam(r, "scanID"))
}

func vulnIDParam(r *http.Request) types.VulnID {
	return types.VulnID(chi.URLParam(r, "vulnID"))
}

func createScan(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.CreateScanInput
		if err := decodeBody(r, &input, false); err != nil {
			writeError(w, r, err)
			return
		}

		scan, err := uc.CreateScan(r.Context(), actorFrom(r.Context()), input)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, scan)
	}
}

func listScans(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scans, err := uc.ListScans(r.Context(), actorFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, scans)
	}
}

func createTestScan(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.CreateTestScanInput
		if err := decodeBody(r, &input, true); err != nil {
			writeError(w, r, err)
			return
		}

		scan, err := uc.CreateTestScan(r.Context(), actorFrom(r.Context()), input)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, scan)
	}
}

func getScan(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := uc.GetScan(r.Context(), actorFrom(r.Context()), scanIDParam(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, detail)
	}
}

func updateScan(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.UpdateScanInput
		if err := decodeBody(r, &input, false); err != nil {
			writeError(w, r, err)
			return
		}

		scan, err := uc.UpdateScan(r.Context(), actorFrom(r.Context()), scanIDParam(r), input)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, scan)
	}
}

func addFiles(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inputs []model.ScanFileInput
		if err := decodeBody(r, &inputs, false); err != nil {
			writeError(w, r, err)
			return
		}

		files, err := uc.AddFiles(r.Context(), actorFrom(r.Context()), scanIDParam(r), inputs)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, files)
	}
}

func addVulnerabilities(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inputs []model.VulnerabilityInput
		if err := decodeBody(r, &inputs, false); err != nil {
			writeError(w, r, err)
			return
		}

		vulns, err := uc.AddVulnerabilities(r.Context(), actorFrom(r.Context()), scanIDParam(r), inputs)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, vulns)
	}
}

func listVulnerabilities(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := model.VulnerabilityFilter{
			ProjectID: types.ProjectID(query.Get("project_id")),
			ScanID:    types.ScanID(query.Get("scan_id")),
		}
		if v := query.Get("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit < 0 {
				writeError(w, r, goerr.Wrap(types.ErrValidationFailed, "limit must be a non-negative integer", goerr.V("limit", v)))
				return
			}
			filter.Limit = limit
		}

		vulns, err := uc.ListVulnerabilities(r.Context(), actorFrom(r.Context()), filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, vulns)
	}
}

func getVulnerability(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vuln, err := uc.GetVulnerability(r.Context(), actorFrom(r.Context()), vulnIDParam(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, vuln)
	}
}

func updateVulnerabilityStatus(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.UpdateVulnStatusInput
		if err := decodeBody(r, &input, false); err != nil {
			writeError(w, r, err)
			return
		}

		vuln, err := uc.UpdateVulnerabilityStatus(r.Context(), actorFrom(r.Context()), vulnIDParam(r), input)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, vuln)
	}
}
