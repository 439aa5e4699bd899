package handlers

// @title User Registry API
// @version 1.0
// @description Create, look up and search users held in a single key-value table. User names are unique.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name users
// @tag.description User registry operations
