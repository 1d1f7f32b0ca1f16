// Package docs Hotspot Explorer API.
//
// Сервис анализа очагов ДТП. Инциденты группируются в ячейки сетки с
// выбираемым разрешением, ячейки ранжируются по risk_score, casualties или
// collisions, выборку можно ограничить радиусом вокруг опорной точки сессии,
// а выбранная ячейка раскрывается до разбивки по тяжести и записей.
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- text/plain
//
// swagger:meta
package docs
