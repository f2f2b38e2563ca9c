package http

import (
	"net/http"

	"github.com/galileomedialab/medialab/internal/crm/data"
	"github.com/galileomedialab/medialab/internal/crm/domain"
	"github.com/galileomedialab/medialab/pkg/cms"
	"github.com/galileomedialab/medialab/pkg/httpx"
)

type catalogsResponse struct {
	Faculties         []domain.Faculty         `json:"faculties"`
	Services          []domain.Service         `json:"services"`
	ServiceCategories []domain.ServiceCategory `json:"service_categories"`
	ProjectTypes      []domain.ProjectType     `json:"project_types"`
	DeliverableTypes  []domain.DeliverableType `json:"deliverable_types"`
}

// handleCatalogs godoc
//
//	@Summary		Read-only catalogs
//	@Description	Returns the five lookup catalogs in one payload, served from
//	@Description	the session cache once loaded.
//	@Tags			Catalogs
//	@Produce		json
//	@Success		200	{object}	catalogsResponse
//	@Failure		401	{object}	map[string]string	"session expired"
//	@Router			/api/catalogs [get].
func (r *Router) handleCatalogs(w http.ResponseWriter, req *http.Request) {
	sess := r.sessionFor(req)
	caches := r.registry.For(sess.ID())

	if !caches.CatalogsLoaded() {
		if err := loadCatalogs(req, sess.API(), caches); err != nil {
			caches.SetError("Error al cargar los catálogos")
			r.writeProxyError(w, req, err)
			return
		}
		caches.ClearError()
	}

	httpx.WriteJSON(w, http.StatusOK, catalogsResponse{
		Faculties:         caches.Faculties.Items(),
		Services:          caches.Services.Items(),
		ServiceCategories: caches.ServiceCategories.Items(),
		ProjectTypes:      caches.ProjectTypes.Items(),
		DeliverableTypes:  caches.DeliverableTypes.Items(),
	})
}

func loadCatalogs(req *http.Request, api *cms.Session, caches *data.Caches) error {
	ctx := req.Context()

	faculties, err := cms.List[domain.Faculty](ctx, api, domain.CollectionFaculties, cms.Query{Sort: []string{"name"}})
	if err != nil {
		return err
	}
	services, err := cms.List[domain.Service](ctx, api, domain.CollectionServices, cms.Query{Sort: []string{"name"}})
	if err != nil {
		return err
	}
	categories, err := cms.List[domain.ServiceCategory](ctx, api, domain.CollectionServiceCats, cms.Query{Sort: []string{"name"}})
	if err != nil {
		return err
	}
	projectTypes, err := cms.List[domain.ProjectType](ctx, api, domain.CollectionProjectTypes, cms.Query{Sort: []string{"name"}})
	if err != nil {
		return err
	}
	deliverableTypes, err := cms.List[domain.DeliverableType](ctx, api, domain.CollectionDeliverableTypes, cms.Query{Sort: []string{"name"}})
	if err != nil {
		return err
	}

	caches.Faculties.Replace(faculties)
	caches.Services.Replace(services)
	caches.ServiceCategories.Replace(categories)
	caches.ProjectTypes.Replace(projectTypes)
	caches.DeliverableTypes.Replace(deliverableTypes)
	return nil
}
