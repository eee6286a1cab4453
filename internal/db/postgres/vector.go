package postgres

import "strconv"

// VectorLiteral serializes a query vector into the pgvector input format
// ("[v1,v2,...]"). Values use the shortest decimal representation that
// round-trips a float32, so equal vectors always serialize to identical
// bytes. The literal is bound as a query parameter, never spliced into SQL.
func VectorLiteral(vec []float32) string {
	buf := make([]byte, 0, len(vec)*12+2)
	buf = append(buf, '[')
	for i, v := range vec {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, float64(v), 'g', -1, 32)
	}
	buf = append(buf, ']')
	return string(buf)
}
