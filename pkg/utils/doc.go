// Package utils holds the small HTTP helpers shared by the role and user APIs:
// content negotiation checks, JSON decoding, Location headers and error rendering.
//
//	if err := utils.RequireJSONBody(r); err != nil {
//		utils.RenderError(w, r, err)
//		return
//	}
//
// RenderError maps errors through apperrors.HTTPStatus. A 404 is written with an
// empty body; other failures carry {"status":"error","message":...}.
package utils
