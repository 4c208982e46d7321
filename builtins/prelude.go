package builtins

func init() {
	Register(&Module{
		Name: "core",
		Doc:  "Conversions and introspection",
		Funcs: []FuncDef{
			{Name: "len", Args: []string{"obj"}, Doc: "Length of a string or array, or the number of keys of an object; 0 for None."},
			{Name: "str", Args: []string{"x"}, Doc: "Converts x to a string."},
			{Name: "int", Args: []string{"x"}, Doc: "Parses x as a base-10 integer."},
			{Name: "float", Args: []string{"x"}, Doc: "Parses x as a floating point number."},
			{Name: "bool", Args: []string{"x"}, Doc: "Truthiness of x."},
			{Name: "type", Args: []string{"x"}, Doc: "The JavaScript type name of x."},
			{Name: "isinstance", Args: []string{"obj", "cls"}, Doc: "Reports whether obj was constructed by class cls."},
			{Name: "chr", Args: []string{"n"}, Doc: "The character with code n."},
			{Name: "ord", Args: []string{"c"}, Doc: "The code of the first character of c."},
		},
	})

	Register(&Module{
		Name: "collections",
		Doc:  "Array and object helpers",
		Funcs: []FuncDef{
			{Name: "range", Args: []string{"start", "end", "step"}, Doc: "Numbers from start up to end by step. With one argument counts from 0."},
			{Name: "sorted", Args: []string{"arr"}, Doc: "A sorted copy of arr."},
			{Name: "reversed", Args: []string{"arr"}, Doc: "A reversed copy of arr."},
			{Name: "enumerate", Args: []string{"arr"}, Doc: "[index, value] pairs of arr."},
			{Name: "zip", Args: []string{"arrays"}, Variadic: true, Doc: "Arrays of the elements at each index of the given arrays."},
			{Name: "any", Args: []string{"arr"}, Doc: "Reports whether some element is truthy."},
			{Name: "all", Args: []string{"arr"}, Doc: "Reports whether every element is truthy."},
			{Name: "keys", Args: []string{"obj"}, Doc: "The keys of obj."},
			{Name: "values", Args: []string{"obj"}, Doc: "The values of obj."},
			{Name: "items", Args: []string{"obj"}, Doc: "[key, value] pairs of obj."},
		},
	})

	Register(&Module{
		Name: "math",
		Doc:  "Numeric helpers",
		Funcs: []FuncDef{
			{Name: "abs", Args: []string{"x"}, Doc: "Absolute value of x."},
			{Name: "round", Args: []string{"x"}, Doc: "x rounded to the nearest integer."},
			{Name: "sum", Args: []string{"arr"}, Doc: "Sum of the numbers in arr."},
			{Name: "min", Args: []string{"values"}, Variadic: true, Doc: "Smallest argument, or smallest element of a single array."},
			{Name: "max", Args: []string{"values"}, Variadic: true, Doc: "Largest argument, or largest element of a single array."},
		},
	})

	Register(&Module{
		Name:  "io",
		Doc:   "Console input",
		Funcs: []FuncDef{{Name: "input", Args: []string{"prompt"}, Doc: "Prints prompt and reads one line from standard input."}},
	})

	Register(&Module{
		Name:       "fs",
		Doc:        "Asynchronous file access",
		Namespaced: true,
		Funcs: []FuncDef{
			{Name: "read", Args: []string{"path"}, Doc: "Contents of the file at path as UTF-8 text."},
			{Name: "write", Args: []string{"path", "content"}, Doc: "Replaces the file at path with content."},
		},
	})
}
