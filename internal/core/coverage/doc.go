// Package coverage generates coverage flight paths over a survey polygon.
//
// Coordinates are treated as a flat plane: X is longitude, Y is latitude.
// Grid and crosshatch patterns sweep the polygon's bounding box in
// boustrophedon order, perimeter traces the polygon ring. Self-intersection is
// not checked; callers validate geometry before planning.
package coverage
