package stackitem

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func getTestDecodeEncodeFunc(js string, actual Item) func(t *testing.T) {
	return func(t *testing.T) {
		data, err := ToJSONWithTypes(actual)
		require.NoError(t, err)
		require.Equal(t, js, string(data))

		item, err := FromJSONWithTypes(data)
		require.NoError(t, err)
		require.Equal(t, actual, item)
	}
}

func TestToFromJSONWithTypes(t *testing.T) {
	t.Run("Null", getTestDecodeEncodeFunc(`{"type":"Any"}`, Null{}))
	t.Run("Bool", getTestDecodeEncodeFunc(`{"type":"Boolean","value":true}`, NewBool(true)))
	t.Run("Integer", getTestDecodeEncodeFunc(`{"type":"Integer","value":"42"}`, NewBigInteger(big.NewInt(42))))
	t.Run("NegativeInteger", getTestDecodeEncodeFunc(`{"type":"Integer","value":"-100"}`, NewBigInteger(big.NewInt(-100))))
	t.Run("ByteString", getTestDecodeEncodeFunc(`{"type":"ByteString","value":"AQID"}`, NewByteArray([]byte{1, 2, 3})))
	t.Run("Buffer", getTestDecodeEncodeFunc(`{"type":"Buffer","value":"AQID"}`, NewBuffer([]byte{1, 2, 3})))
	t.Run("EmptyArray", getTestDecodeEncodeFunc(`{"type":"Array","value":[]}`, NewArray([]Item{})))
	t.Run("Array", getTestDecodeEncodeFunc(
		`{"type":"Array","value":[{"type":"Integer","value":"1"},{"type":"Any"}]}`,
		NewArray([]Item{NewBigInteger(big.NewInt(1)), Null{}})))
	t.Run("Struct", getTestDecodeEncodeFunc(
		`{"type":"Struct","value":[{"type":"Boolean","value":false}]}`,
		NewStruct([]Item{NewBool(false)})))
	t.Run("Map", func(t *testing.T) {
		m := NewMap()
		m.Add(NewByteArray([]byte("key")), NewBigInteger(big.NewInt(17)))
		getTestDecodeEncodeFunc(
			`{"type":"Map","value":[{"key":{"type":"ByteString","value":"a2V5"},"value":{"type":"Integer","value":"17"}}]}`,
			m)(t)
	})
	t.Run("MapOrderPreserved", func(t *testing.T) {
		m := NewMap()
		m.Add(NewByteArray([]byte("z")), NewBigInteger(big.NewInt(1)))
		m.Add(NewByteArray([]byte("a")), NewBigInteger(big.NewInt(2)))
		data, err := ToJSONWithTypes(m)
		require.NoError(t, err)

		item, err := FromJSONWithTypes(data)
		require.NoError(t, err)
		m2, ok := item.(*Map)
		require.True(t, ok)
		require.Equal(t, m.value, m2.value)
	})
}

func TestToJSONWithTypesBadItems(t *testing.T) {
	t.Run("Interop", func(t *testing.T) {
		_, err := ToJSONWithTypes(NewInterop(42))
		require.Error(t, err)
	})
	t.Run("RecursiveArray", func(t *testing.T) {
		arr := &Array{}
		arr.value = append(arr.value, arr)
		_, err := ToJSONWithTypes(arr)
		require.Error(t, err)
	})
	t.Run("RecursiveMap", func(t *testing.T) {
		m := NewMap()
		m.value = append(m.value, MapElement{Key: NewBool(true), Value: m})
		_, err := ToJSONWithTypes(m)
		require.Error(t, err)
	})
}

func TestFromJSONWithTypesBadInput(t *testing.T) {
	for _, tc := range []string{
		``,
		`{}`,
		`{"type":"Unknown","value":1}`,
		`{"type":"Integer","value":"not a number"}`,
		`{"type":"Integer","value":true}`,
		`{"type":"Boolean","value":"maybe"}`,
		`{"type":"ByteString","value":"not base64!"}`,
		`{"type":"Array","value":17}`,
		`{"type":"Map","value":[{"key":{"type":"Integer","value":"1"}}]}`,
		`{"type":"InteropInterface"}`,
	} {
		_, err := FromJSONWithTypes([]byte(tc))
		require.Error(t, err, tc)
	}

	t.Run("TooDeep", func(t *testing.T) {
		js := `{"type":"Integer","value":"1"}`
		for range [maxJSONDepth + 1]struct{}{} {
			js = `{"type":"Array","value":[` + js + `]}`
		}
		_, err := FromJSONWithTypes([]byte(js))
		require.ErrorIs(t, err, ErrTooDeep)
	})
}
