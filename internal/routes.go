package internal

import (
	"net/http"
	"portal/internal/controllers"
	"portal/internal/providers"
)

func InitRoutes(widgetController *controllers.WidgetController, messageController *controllers.MessageController, creatorController *controllers.CreatorController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/widgets/{fname}", http.HandlerFunc(widgetController.GetView))
	routers.Get("/widgets/{fname}/entry", http.HandlerFunc(widgetController.GetEntry))
	routers.Get("/widgets/{fname}/external-message", http.HandlerFunc(widgetController.GetExternalMessage))
	routers.Put("/weather/preference", http.HandlerFunc(widgetController.SetWeatherPreference))

	routers.Get("/messages", http.HandlerFunc(messageController.GetMessages))
	routers.Get("/messages/seen", http.HandlerFunc(messageController.GetSeen))
	routers.Post("/messages/seen", http.HandlerFunc(messageController.SetSeen))

	routers.Get("/creator/templates", http.HandlerFunc(creatorController.Templates))
	routers.Post("/creator/preview", http.HandlerFunc(creatorController.Preview))
	routers.Post("/creator/drafts", http.HandlerFunc(creatorController.SaveDraft))
	routers.Get("/creator/drafts/{id}", http.HandlerFunc(creatorController.GetDraft))
	routers.Delete("/creator/drafts/{id}", http.HandlerFunc(creatorController.DeleteDraft))
	return routers
}
