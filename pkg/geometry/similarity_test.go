package geometry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/pkg/geometry"
)

var _ = Describe("CosineMatrix", func() {
	It("fails on an empty embedding set", func() {
		_, err := geometry.CosineMatrix(nil)
		Expect(err).To(MatchError(geometry.ErrInsufficientData))
	})

	It("fails on mismatched vector lengths", func() {
		_, err := geometry.CosineMatrix([][]float64{{1, 0}, {1, 0, 0}})
		Expect(err).To(MatchError(geometry.ErrDimensionMismatch))
	})

	It("produces a symmetric matrix with a unit diagonal", func() {
		matrix, err := geometry.CosineMatrix(randomVectors(6, 8, 21))
		Expect(err).NotTo(HaveOccurred())
		Expect(matrix).To(HaveLen(6))
		for i := range matrix {
			Expect(matrix[i]).To(HaveLen(6))
			Expect(matrix[i][i]).To(BeNumerically("~", 1.0, 1e-6))
			for j := range matrix[i] {
				Expect(matrix[i][j]).To(BeNumerically("~", matrix[j][i], 1e-9))
				Expect(matrix[i][j]).To(BeNumerically(">=", -1.0-1e-9))
				Expect(matrix[i][j]).To(BeNumerically("<=", 1.0+1e-9))
			}
		}
	})

	It("matches known similarities for simple vectors", func() {
		matrix, err := geometry.CosineMatrix([][]float64{
			{1, 0},
			{0, 1},
			{1, 1},
			{-1, 0},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(matrix[0][1]).To(BeNumerically("~", 0.0, 1e-9))
		Expect(matrix[0][2]).To(BeNumerically("~", 0.7071, 1e-3))
		Expect(matrix[0][3]).To(BeNumerically("~", -1.0, 1e-9))
	})

	It("treats zero vectors as dissimilar to everything", func() {
		matrix, err := geometry.CosineMatrix([][]float64{
			{0, 0, 0},
			{1, 2, 3},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(matrix[0][1]).To(BeZero())
		Expect(matrix[1][0]).To(BeZero())
	})
})
