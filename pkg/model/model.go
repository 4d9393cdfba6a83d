package model

// Split holds the numeric train/test partition. Feature rows follow Columns order and
// TrainRows/TestRows point back at the cleaned table row each sample came from.
type Split struct {
	Columns []string

	TrainX [][]float64
	TestX  [][]float64
	TrainY []int
	TestY  []int

	TrainRows []int
	TestRows  []int
}

func (s *Split) Size() int {
	return len(s.TrainY) + len(s.TestY)
}

// ClassCounts returns the number of samples per label in the train and test subsets.
func (s *Split) ClassCounts() (train map[int]int, test map[int]int) {
	train = map[int]int{}
	test = map[int]int{}
	for _, y := range s.TrainY {
		train[y]++
	}
	for _, y := range s.TestY {
		test[y]++
	}
	return train, test
}
