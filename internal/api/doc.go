// Package api contains the HTTP handlers, request/response models and
// error mapping for the public REST surface. Handlers validate input,
// delegate to the service layer and translate service errors into safe
// HTTP responses.
package api
