// Package alert renders feedback alerts above a mounted page.
//
// A Stack collects alerts raised while a page is being prepared and renders
// them as dismissible Bootstrap-style fragments when the page mounts:
//
//	alerts := alert.NewStack()
//	alerts.Success("Project deleted")
//	alerts.Error("Network error")
//
//	rt := page.NewHTMLRuntime(doc, page.WithNotices(alerts))
//
// The rendered markup is:
//
//	<div class="alert alert-success alert-dismissible fade show" role="alert" data-dismiss-after="5000">
//	  Project deleted
//	  <button type="button" class="btn-close" data-bs-dismiss="alert"></button>
//	</div>
//
// Messages may contain simple inline markup; anything unsafe is removed.
// A Stack also implements page.Reporter so a bootstrap can report
// fallbacks through it.
package alert
