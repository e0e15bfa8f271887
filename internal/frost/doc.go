// Package frost computes frost numbers: dimensionless indices of permafrost
// likelihood derived from seasonal air temperature extremes.
//
// # Method
//
// The annual temperature cycle is approximated by a single cosine wave fit to
// the coldest- and warmest-month means:
//
//	T(t) = A·cos(2πt/P) + T_mean
//
// where T_mean = (T_max + T_min)/2, amplitude A = (T_max − T_min)/2, P is the
// number of days in the year, and t is measured from the warm peak. When the
// curve crosses 0 °C, the crossing angle is β = arccos(−T_mean/A) and the
// cosine integrates in closed form over the thaw and frost arcs, giving
// cumulative degree-thawing days (DTT) and degree-freezing days (DFF):
//
//	T_summer = T_mean + A·sin(β)/β          L_summer = P·β/π
//	T_winter = T_mean − A·sin(β)/(π−β)      L_winter = P − L_summer
//	DTT = T_summer·L_summer                 DFF = −T_winter·L_winter
//
// Years that never cross freezing are limit cases of the same formula: the
// cosine term integrates to zero over a full period, so DTT = T_mean·P (always
// thawing) or DFF = −T_mean·P (always freezing), with the other index 0.
//
// # Frost numbers
//
// Following Nelson & Outcalt (1987), a frost number is the square-root ratio
//
//	F = √DFF / (√DFF + √DTT)
//
// bounded in [0,1]: 0 means the ground never freezes, 1 means it never thaws,
// and values above roughly 0.5 indicate that permafrost is likely. Three
// variants are computed:
//
//   - air: from the air temperature extremes directly.
//   - surface: from the extremes shifted by a fixed surface offset, a crude
//     stand-in for the insulating effect of snow and vegetation cover.
//   - stefan: the air indices with DFF scaled by a thermal-property ratio
//     (conductivity/latent-heat proxy) before forming the same ratio. A ratio
//     of 1 degenerates to the air number.
//
// # Degenerate input
//
// T_min = T_max = 0 gives DFF = DTT = 0 and the ratio is undefined. The
// functions here return NaN for that case rather than an error; callers detect
// it with math.IsNaN. All other finite inputs produce defined values, including
// physically meaningless ones (T_max < T_min behaves as a mirrored year).
package frost
