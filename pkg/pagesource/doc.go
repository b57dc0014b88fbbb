// Package pagesource populates page registries from page source files.
//
// Sources are laid out as
//
//	pages/Home.html
//	pages/Projects/Show.tmpl
//	pages/Docs/Intro.md
//	layouts/Layout.html
//
// and produce registry keys ./pages/Home.html, ./pages/Projects/Show.tmpl
// and so on. The listing happens once; each page is read and compiled only
// when its loader runs. Layouts are compiled up front, and layouts/Layout
// becomes the registry's default layout.
//
// .html and .tmpl files are html/template components. .md files are
// rendered with goldmark and sanitized with bluemonday. A page picks a
// layout other than the default with a directive on its first line:
//
//	{{/* layout: Wide */}}
//	<!-- layout: Wide -->
package pagesource
